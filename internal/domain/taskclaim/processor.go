package taskclaim

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

const defaultMinLength = 1

func decode(ctx context.Context, data map[string]any, v any) error {
	if err := mapstructure.Decode(data, v); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return errorx.New(errorx.InvalidInput, "Invalid task config")
	}

	return nil
}

// Check-in and mini game processor
type alwaysAcceptProcessor struct{}

func newAlwaysAcceptProcessor() *alwaysAcceptProcessor {
	return &alwaysAcceptProcessor{}
}

func (p *alwaysAcceptProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	return "", nil
}

func (p *alwaysAcceptProcessor) PublicConfig() map[string]any {
	return map[string]any{}
}

// Quiz processor
type quizProcessor struct {
	Question      string   `mapstructure:"question" structs:"question"`
	Options       []string `mapstructure:"options" structs:"options"`
	CorrectAnswer int      `mapstructure:"correct_answer" structs:"correct_answer"`
}

func newQuizProcessor(ctx context.Context, data map[string]any, needParse bool) (*quizProcessor, error) {
	quiz := quizProcessor{}
	if err := decode(ctx, data, &quiz); err != nil {
		return nil, err
	}

	if needParse {
		if len(quiz.Options) < 2 {
			return nil, errorx.New(errorx.InvalidInput, "Provide at least two options")
		}

		if quiz.CorrectAnswer < 0 || quiz.CorrectAnswer >= len(quiz.Options) {
			return nil, errorx.New(errorx.InvalidInput, "The correct answer must be an option index")
		}
	}

	return &quiz, nil
}

func (p *quizProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	var answer int
	if len(submission.Answer) == 0 || json.Unmarshal(submission.Answer, &answer) != nil {
		return "", errorx.New(errorx.InvalidInput, "Answer must be an option index")
	}

	if answer != p.CorrectAnswer {
		return "", errorx.New(errorx.InvalidAnswer, "Incorrect answer")
	}

	return string(submission.Answer), nil
}

func (p *quizProcessor) PublicConfig() map[string]any {
	return map[string]any{"question": p.Question, "options": p.Options}
}

// Text answer processor
type textProcessor struct {
	Placeholder string `mapstructure:"placeholder" structs:"placeholder"`
	MinLength   int    `mapstructure:"min_length" structs:"min_length"`
}

func newTextProcessor(ctx context.Context, data map[string]any, needParse bool) (*textProcessor, error) {
	text := textProcessor{}
	if err := decode(ctx, data, &text); err != nil {
		return nil, err
	}

	if needParse && text.MinLength < 0 {
		return nil, errorx.New(errorx.InvalidInput, "Min length must not be negative")
	}

	if text.MinLength == 0 {
		text.MinLength = defaultMinLength
	}

	return &text, nil
}

func (p *textProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	var answer string
	if len(submission.Answer) == 0 || json.Unmarshal(submission.Answer, &answer) != nil {
		return "", errorx.New(errorx.InvalidInput, "Answer must be a text")
	}

	answer = strings.TrimSpace(answer)
	if err := checkMinLength(answer, p.MinLength); err != nil {
		return "", err
	}

	return answer, nil
}

func (p *textProcessor) PublicConfig() map[string]any {
	return map[string]any{"placeholder": p.Placeholder, "min_length": p.MinLength}
}

// Photo upload processor
type photoProcessor struct {
	Prompt string `mapstructure:"prompt" structs:"prompt"`

	prefix string
}

func newPhotoProcessor(ctx context.Context, data map[string]any) (*photoProcessor, error) {
	photo := photoProcessor{prefix: xcontext.Configs(ctx).Campaign.PhotoURLPrefix}
	if err := decode(ctx, data, &photo); err != nil {
		return nil, err
	}

	return &photo, nil
}

func (p *photoProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	var photoURL string
	if len(submission.Answer) == 0 || json.Unmarshal(submission.Answer, &photoURL) != nil {
		return "", errorx.New(errorx.InvalidInput, "Please upload a photo")
	}

	if !isPhotoReference(photoURL, p.prefix) {
		return "", errorx.New(errorx.InvalidInput, "Please upload a photo")
	}

	return photoURL, nil
}

func (p *photoProcessor) PublicConfig() map[string]any {
	return map[string]any{"prompt": p.Prompt}
}

// Photo with text processor
type photoTextProcessor struct {
	Prompt    string `mapstructure:"prompt" structs:"prompt"`
	MinLength int    `mapstructure:"min_length" structs:"min_length"`

	prefix string
}

type photoTextAnswer struct {
	PhotoURL string `json:"photo_url"`
	Text     string `json:"text"`
}

func newPhotoTextProcessor(ctx context.Context, data map[string]any, needParse bool) (*photoTextProcessor, error) {
	photoText := photoTextProcessor{prefix: xcontext.Configs(ctx).Campaign.PhotoURLPrefix}
	if err := decode(ctx, data, &photoText); err != nil {
		return nil, err
	}

	if needParse && photoText.MinLength < 0 {
		return nil, errorx.New(errorx.InvalidInput, "Min length must not be negative")
	}

	if photoText.MinLength == 0 {
		photoText.MinLength = defaultMinLength
	}

	return &photoText, nil
}

func (p *photoTextProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	if !isPhotoReference(submission.PhotoURL, p.prefix) {
		return "", errorx.New(errorx.InvalidInput, "Please upload a photo")
	}

	text := strings.TrimSpace(submission.Text)
	if err := checkMinLength(text, p.MinLength); err != nil {
		return "", err
	}

	b, err := json.Marshal(photoTextAnswer{PhotoURL: submission.PhotoURL, Text: text})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal answer: %v", err)
		return "", errorx.Unknown
	}

	return string(b), nil
}

func (p *photoTextProcessor) PublicConfig() map[string]any {
	return map[string]any{"prompt": p.Prompt, "min_length": p.MinLength}
}

// Multiple question quiz processor
type question struct {
	Question      string   `mapstructure:"question" structs:"question"`
	Options       []string `mapstructure:"options" structs:"options"`
	CorrectAnswer int      `mapstructure:"correct_answer" structs:"correct_answer"`
}

type multiQuizProcessor struct {
	Questions []question `mapstructure:"questions" structs:"questions"`
}

func newMultiQuizProcessor(ctx context.Context, data map[string]any, needParse bool) (*multiQuizProcessor, error) {
	quiz := multiQuizProcessor{}
	if err := decode(ctx, data, &quiz); err != nil {
		return nil, err
	}

	if needParse {
		if len(quiz.Questions) == 0 {
			return nil, errorx.New(errorx.InvalidInput, "Provide at least one question")
		}

		for i, q := range quiz.Questions {
			if len(q.Options) < 2 {
				return nil, errorx.New(errorx.InvalidInput, "Question %d needs at least two options", i+1)
			}

			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return nil, errorx.New(errorx.InvalidInput,
					"The correct answer of question %d must be an option index", i+1)
			}
		}
	}

	return &quiz, nil
}

func (p *multiQuizProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	if len(submission.Answers) != len(p.Questions) {
		return "", errorx.New(errorx.InvalidInput, "Please answer all %d questions", len(p.Questions))
	}

	wrong := []int{}
	for i, q := range p.Questions {
		if submission.Answers[i] != q.CorrectAnswer {
			wrong = append(wrong, i)
		}
	}

	if len(wrong) > 0 {
		return "", errorx.New(errorx.InvalidAnswer, "%d answers are incorrect, please try again", len(wrong)).
			WithDetail(WrongAnswers{WrongIndices: wrong})
	}

	b, err := json.Marshal(submission.Answers)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal answers: %v", err)
		return "", errorx.Unknown
	}

	return string(b), nil
}

func (p *multiQuizProcessor) PublicConfig() map[string]any {
	questions := make([]map[string]any, 0, len(p.Questions))
	for _, q := range p.Questions {
		questions = append(questions, map[string]any{"question": q.Question, "options": q.Options})
	}

	return map[string]any{"questions": questions}
}

// Book and target date processor
type bookDateProcessor struct {
	Prompt string `mapstructure:"prompt" structs:"prompt"`
}

type bookDateAnswer struct {
	BookName   string `json:"book_name"`
	TargetDate string `json:"target_date"`
}

func newBookDateProcessor(ctx context.Context, data map[string]any) (*bookDateProcessor, error) {
	bookDate := bookDateProcessor{}
	if err := decode(ctx, data, &bookDate); err != nil {
		return nil, err
	}

	return &bookDate, nil
}

func (p *bookDateProcessor) Validate(ctx context.Context, submission Submission) (string, error) {
	bookName := strings.TrimSpace(submission.BookName)
	if bookName == "" {
		return "", errorx.New(errorx.InvalidInput, "Please enter the book name")
	}

	if submission.TargetDate == "" {
		return "", errorx.New(errorx.InvalidInput, "Please choose the target date")
	}

	if !isDate(submission.TargetDate) {
		return "", errorx.New(errorx.InvalidInput, "Invalid target date")
	}

	b, err := json.Marshal(bookDateAnswer{BookName: bookName, TargetDate: submission.TargetDate})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal answer: %v", err)
		return "", errorx.Unknown
	}

	return string(b), nil
}

func (p *bookDateProcessor) PublicConfig() map[string]any {
	return map[string]any{"prompt": p.Prompt}
}

func checkMinLength(s string, minLength int) error {
	if utf8.RuneCountInString(s) < minLength {
		return errorx.New(errorx.InvalidInput, "Answer must be at least %d characters", minLength).
			WithDetail(MinLength{MinLength: minLength})
	}

	return nil
}

func isPhotoReference(s, prefix string) bool {
	return prefix != "" && strings.HasPrefix(s, prefix) && len(s) > len(prefix)
}

func isDate(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}

	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
