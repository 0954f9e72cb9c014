package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/storage"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

const maxCommentLength = 500

type PhotoDomain interface {
	GetUploadURL(context.Context, *model.GetPhotoUploadURLRequest) (*model.GetPhotoUploadURLResponse, error)
	Create(context.Context, *model.CreatePhotoRequest) (*model.CreatePhotoResponse, error)
	GetList(context.Context, *model.GetPhotosRequest) (*model.GetPhotosResponse, error)
	Get(context.Context, *model.GetPhotoRequest) (*model.GetPhotoResponse, error)
	GetComments(context.Context, *model.GetPhotoCommentsRequest) (*model.GetPhotoCommentsResponse, error)
	CreateComment(context.Context, *model.CreatePhotoCommentRequest) (*model.CreatePhotoCommentResponse, error)
}

type photoDomain struct {
	photoRepo   repository.PhotoRepository
	commentRepo repository.PhotoCommentRepository
	ledger      ledger.Ledger
	notifier    notification.Notifier
	storage     storage.Storage
}

func NewPhotoDomain(
	photoRepo repository.PhotoRepository,
	commentRepo repository.PhotoCommentRepository,
	ledger ledger.Ledger,
	notifier notification.Notifier,
	storage storage.Storage,
) *photoDomain {
	return &photoDomain{
		photoRepo:   photoRepo,
		commentRepo: commentRepo,
		ledger:      ledger,
		notifier:    notifier,
		storage:     storage,
	}
}

func (d *photoDomain) GetUploadURL(
	ctx context.Context, req *model.GetPhotoUploadURLRequest,
) (*model.GetPhotoUploadURLResponse, error) {
	fileName := path.Base(req.FileName)
	if req.FileName == "" || fileName == "." || fileName == "/" {
		return nil, errorx.New(errorx.InvalidInput, "File name is required")
	}

	if !slices.Contains(allowedImageTypes, req.ContentType) {
		return nil, errorx.New(errorx.InvalidInput, "Invalid content type, allowed: %s",
			strings.Join(allowedImageTypes, ", "))
	}

	resp, err := d.storage.PresignUpload(ctx, &storage.UploadObject{
		Prefix:   photoKeyPrefix(xcontext.RequestUserID(ctx)),
		FileName: fileName,
		Mime:     req.ContentType,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot presign upload url: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot generate upload url")
	}

	return &model.GetPhotoUploadURLResponse{
		UploadURL: resp.URL,
		Key:       resp.Key,
		PhotoURL:  photoReference(ctx, resp.Key),
		ExpiresAt: resp.ExpiresAt.Format(defaultTimeLayout),
	}, nil
}

// Create records an uploaded photo of the requesting user and grants the
// photo points.
func (d *photoDomain) Create(
	ctx context.Context, req *model.CreatePhotoRequest,
) (*model.CreatePhotoResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if !strings.HasPrefix(req.Key, photoKeyPrefix(userID)+"/") {
		return nil, errorx.New(errorx.InvalidInput, "Invalid photo key")
	}

	exists, err := d.storage.Exists(ctx, req.Key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check photo object: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot check the uploaded photo")
	}

	if !exists {
		return nil, errorx.New(errorx.InvalidInput, "The photo has not been uploaded")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ledger.LockUser(ctx, userID); err != nil {
		return nil, err
	}

	photo := &entity.PhotoUpload{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		StorageKey: req.Key,
		ImageURL:   photoReference(ctx, req.Key),
		Caption:    nullString(strings.TrimSpace(req.Caption)),
	}
	if err := d.photoRepo.Create(ctx, photo); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Conflict, "The photo was already submitted")
		}

		xcontext.Logger(ctx).Errorf("Cannot create photo: %v", err)
		return nil, errorx.Unknown
	}

	points := xcontext.Configs(ctx).Campaign.PointsPerPhoto
	newTickets := 0
	if points != 0 {
		result, err := d.ledger.AddPoints(ctx, ledger.Entry{
			UserID:      userID,
			Amount:      points,
			Type:        entity.PointPhotoUpload,
			ReferenceID: photo.ID,
			Description: "Photo upload",
		})
		if err != nil {
			return nil, err
		}

		newTickets = len(result.NewTickets)
		photo.User = *result.User
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit photo: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePhotoResponse{
		Photo:      convertPhoto(photo, 0),
		Points:     points,
		NewTickets: newTickets,
	}, nil
}

func (d *photoDomain) GetList(ctx context.Context, req *model.GetPhotosRequest) (*model.GetPhotosResponse, error) {
	offset, limit := normalizePage(req.Offset, req.Limit)
	photos, err := d.photoRepo.GetList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get photos: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.photoRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count photos: %v", err)
		return nil, errorx.Unknown
	}

	photoIDs := []string{}
	for _, p := range photos {
		photoIDs = append(photoIDs, p.ID)
	}

	commentCounts, err := d.commentRepo.CountByPhotoIDs(ctx, photoIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count photo comments: %v", err)
		return nil, errorx.Unknown
	}

	clientPhotos := []model.Photo{}
	for i := range photos {
		clientPhotos = append(clientPhotos, convertPhoto(&photos[i], commentCounts[photos[i].ID]))
	}

	return &model.GetPhotosResponse{Photos: clientPhotos, Total: total}, nil
}

func (d *photoDomain) Get(ctx context.Context, req *model.GetPhotoRequest) (*model.GetPhotoResponse, error) {
	photo, err := d.getPhoto(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	commentCounts, err := d.commentRepo.CountByPhotoIDs(ctx, []string{photo.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count photo comments: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPhotoResponse{Photo: convertPhoto(photo, commentCounts[photo.ID])}, nil
}

// GetComments returns the comments of a photo, oldest first.
func (d *photoDomain) GetComments(
	ctx context.Context, req *model.GetPhotoCommentsRequest,
) (*model.GetPhotoCommentsResponse, error) {
	if _, err := d.getPhoto(ctx, req.PhotoID); err != nil {
		return nil, err
	}

	comments, err := d.commentRepo.GetListByPhotoID(ctx, req.PhotoID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get photo comments: %v", err)
		return nil, errorx.Unknown
	}

	clientComments := []model.PhotoComment{}
	for i := range comments {
		clientComments = append(clientComments, convertPhotoComment(&comments[i]))
	}

	return &model.GetPhotoCommentsResponse{Comments: clientComments}, nil
}

// CreateComment adds a comment of the requesting user and notifies the
// uploader unless they commented on their own photo.
func (d *photoDomain) CreateComment(
	ctx context.Context, req *model.CreatePhotoCommentRequest,
) (*model.CreatePhotoCommentResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.InvalidInput, "Comment must not be empty")
	}

	if utf8.RuneCountInString(req.Text) > maxCommentLength {
		return nil, errorx.New(errorx.InvalidInput, "Comment must be at most %d characters", maxCommentLength)
	}

	photo, err := d.getPhoto(ctx, req.PhotoID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	comment := &entity.PhotoComment{
		Base:    entity.Base{ID: uuid.NewString()},
		PhotoID: photo.ID,
		UserID:  userID,
		Text:    text,
	}
	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create photo comment: %v", err)
		return nil, errorx.Unknown
	}

	comment, err = d.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get photo comment: %v", err)
		return nil, errorx.Unknown
	}

	var notifications []entity.Notification
	if photo.UserID != userID {
		notifications, err = d.notifier.Record(ctx, notification.PhotoCommented(photo.UserID, comment.User.DisplayName))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record notification: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit photo comment: %v", err)
		return nil, errorx.Unknown
	}

	d.notifier.Publish(ctx, notifications)

	return &model.CreatePhotoCommentResponse{Comment: convertPhotoComment(comment)}, nil
}

func (d *photoDomain) getPhoto(ctx context.Context, id string) (*entity.PhotoUpload, error) {
	photo, err := d.photoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found photo")
		}

		xcontext.Logger(ctx).Errorf("Cannot get photo: %v", err)
		return nil, errorx.Unknown
	}

	return photo, nil
}

func photoKeyPrefix(userID string) string {
	return path.Join("photos", userID)
}

// photoReference is the serve url of a stored photo, the form accepted by
// photo tasks.
func photoReference(ctx context.Context, key string) string {
	return xcontext.Configs(ctx).Campaign.PhotoURLPrefix + base64.RawURLEncoding.EncodeToString([]byte(key))
}
