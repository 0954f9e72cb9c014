package domain

import (
	"time"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertUser(user *entity.User, includeRole bool) model.User {
	if user == nil {
		return model.User{}
	}

	role := ""
	if includeRole {
		role = string(user.Role)
	}

	return model.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		PictureURL:  user.PictureURL,
		Role:        role,
		TotalPoints: user.TotalPoints,
		CreatedAt:   user.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertShortUser(user *entity.User) model.ShortUser {
	if user == nil {
		return model.ShortUser{}
	}

	return model.ShortUser{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		PictureURL:  user.PictureURL,
	}
}

func convertTask(
	task *entity.DailyTask,
	config map[string]any,
	date time.Time,
	isAccessible, isCompleted bool,
) model.Task {
	if task == nil {
		return model.Task{}
	}

	if config == nil {
		config = map[string]any{}
	}

	return model.Task{
		ID:           task.ID,
		Day:          task.Day,
		Date:         date.Format(time.DateOnly),
		Title:        task.Title,
		Description:  task.Description,
		TaskType:     string(task.TaskType),
		TaskConfig:   config,
		Points:       task.Points,
		IsOpen:       task.IsOpen,
		IsClosed:     task.IsClosed,
		IsAccessible: isAccessible,
		IsCompleted:  isCompleted,
	}
}

func convertTaskCompletion(completion *entity.TaskCompletion, includeAnswer bool) model.TaskCompletion {
	if completion == nil {
		return model.TaskCompletion{}
	}

	answer := ""
	if includeAnswer {
		answer = completion.Answer.String
	}

	return model.TaskCompletion{
		ID:          completion.ID,
		User:        convertShortUser(&completion.User),
		Answer:      answer,
		CompletedAt: completion.CompletedAt.Format(defaultTimeLayout),
	}
}

func convertPointTransaction(transaction *entity.PointTransaction) model.PointTransaction {
	if transaction == nil {
		return model.PointTransaction{}
	}

	return model.PointTransaction{
		ID:          transaction.ID,
		UserID:      transaction.UserID,
		Amount:      transaction.Amount,
		Type:        string(transaction.Type),
		ReferenceID: transaction.ReferenceID.String,
		Description: transaction.Description.String,
		CreatedAt:   transaction.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertPrize(prize *entity.Prize, ticketCount int64) model.Prize {
	if prize == nil {
		return model.Prize{}
	}

	return model.Prize{
		ID:          prize.ID,
		Name:        prize.Name,
		Quantity:    prize.Quantity,
		Awarded:     prize.Awarded,
		Remaining:   prize.Quantity - prize.Awarded,
		TicketCount: ticketCount,
	}
}

func convertLotteryTicket(ticket *entity.LotteryTicket, includeUser bool) model.LotteryTicket {
	if ticket == nil {
		return model.LotteryTicket{}
	}

	result := model.LotteryTicket{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Status:       string(ticket.Status),
		PrizeID:      ticket.PrizeID.String,
		PrizeName:    ticket.Prize.Name,
		CreatedAt:    ticket.CreatedAt.Format(defaultTimeLayout),
	}

	if includeUser {
		user := convertShortUser(&ticket.User)
		result.User = &user
	}

	return result
}

// convertScratchCard hides the result of an unscratched card unless reveal is
// set.
func convertScratchCard(card *entity.ScratchCard, reveal, includeUser bool) model.ScratchCard {
	if card == nil {
		return model.ScratchCard{}
	}

	result := model.ScratchCard{
		ID:          card.ID,
		TaskDay:     card.TaskDay,
		IsScratched: card.IsScratched,
	}

	if card.ScratchedAt.Valid {
		result.ScratchedAt = card.ScratchedAt.Time.Format(defaultTimeLayout)
	}

	if reveal || card.IsScratched {
		isWinner := card.IsWinner
		result.IsWinner = &isWinner
		result.PrizeName = card.PrizeName.String
	}

	if includeUser {
		user := convertShortUser(&card.User)
		result.User = &user
	}

	return result
}

func convertBonusDraw(draw *entity.BonusDraw) model.BonusDraw {
	if draw == nil {
		return model.BonusDraw{}
	}

	return model.BonusDraw{
		ID:        draw.ID,
		TaskDay:   draw.TaskDay,
		Winner:    convertShortUser(&draw.Winner),
		PrizeName: draw.PrizeName,
		IsDonated: draw.IsDonated,
		CreatedAt: draw.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertPhoto(photo *entity.PhotoUpload, commentCount int64) model.Photo {
	if photo == nil {
		return model.Photo{}
	}

	return model.Photo{
		ID:           photo.ID,
		User:         convertShortUser(&photo.User),
		ImageURL:     photo.ImageURL,
		Caption:      photo.Caption.String,
		CreatedAt:    photo.CreatedAt.Format(defaultTimeLayout),
		CommentCount: commentCount,
	}
}

func convertPhotoComment(comment *entity.PhotoComment) model.PhotoComment {
	if comment == nil {
		return model.PhotoComment{}
	}

	return model.PhotoComment{
		ID:        comment.ID,
		PhotoID:   comment.PhotoID,
		User:      convertShortUser(&comment.User),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertNotification(notification *entity.Notification) model.Notification {
	if notification == nil {
		return model.Notification{}
	}

	return model.Notification{
		ID:        notification.ID,
		Kind:      string(notification.Kind),
		Title:     notification.Title,
		Body:      notification.Body,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt.Format(defaultTimeLayout),
	}
}
