package taskclaim

import (
	"context"

	"github.com/fatih/structs"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/errorx"
)

// NewProcessor returns the validator of the task type. needParse enables
// checking the config itself, which is required when an admin edits it.
func NewProcessor(
	ctx context.Context, taskType entity.TaskType, data map[string]any, needParse bool,
) (Processor, error) {
	if data == nil {
		data = map[string]any{}
	}

	var processor Processor
	var err error
	switch taskType {
	case entity.TaskCheckIn, entity.TaskMiniGame:
		processor = newAlwaysAcceptProcessor()
	case entity.TaskQuiz:
		processor, err = newQuizProcessor(ctx, data, needParse)
	case entity.TaskTextAnswer:
		processor, err = newTextProcessor(ctx, data, needParse)
	case entity.TaskPhotoUpload:
		processor, err = newPhotoProcessor(ctx, data)
	case entity.TaskPhotoText:
		processor, err = newPhotoTextProcessor(ctx, data, needParse)
	case entity.TaskMultiQuiz:
		processor, err = newMultiQuizProcessor(ctx, data, needParse)
	case entity.TaskBookDate:
		processor, err = newBookDateProcessor(ctx, data)
	default:
		return nil, errorx.New(errorx.InvalidInput, "Invalid task type %s", taskType)
	}

	if err != nil {
		return nil, err
	}

	return processor, nil
}

// Normalize returns the canonical stored form of the processor config.
func Normalize(processor Processor) entity.Map {
	return structs.Map(processor)
}
