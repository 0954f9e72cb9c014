package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/pubsub"
	"github.com/questx-lab/campaign/pkg/storage"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestPhotoDomain(storage storage.Storage) *photoDomain {
	return NewPhotoDomain(
		repository.NewPhotoRepository(),
		repository.NewPhotoCommentRepository(),
		newTestLedger(),
		newTestNotifier(),
		storage,
	)
}

func Test_photoDomain_GetUploadURL(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")

	var presigned *storage.UploadObject
	d := newTestPhotoDomain(&testutil.MockStorage{
		PresignUploadFunc: func(ctx context.Context, obj *storage.UploadObject) (*storage.UploadResponse, error) {
			presigned = obj
			return &storage.UploadResponse{
				URL:       "https://bucket/put",
				Key:       obj.Prefix + "/abc-" + obj.FileName,
				ExpiresAt: time.Now().Add(time.Minute),
			}, nil
		},
	})

	_, err := d.GetUploadURL(ctx, &model.GetPhotoUploadURLRequest{FileName: "a.gif", ContentType: "image/gif"})
	requireCode(t, err, errorx.InvalidInput)

	_, err = d.GetUploadURL(ctx, &model.GetPhotoUploadURLRequest{ContentType: "image/png"})
	requireCode(t, err, errorx.InvalidInput)

	resp, err := d.GetUploadURL(ctx, &model.GetPhotoUploadURLRequest{
		FileName:    "../../etc/dog.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	require.Equal(t, "photos/user1", presigned.Prefix)
	require.Equal(t, "dog.png", presigned.FileName)
	require.Equal(t, "https://bucket/put", resp.UploadURL)
	require.Equal(t, "photos/user1/abc-dog.png", resp.Key)
	require.Equal(t,
		"/api/photos/serve/"+base64.RawURLEncoding.EncodeToString([]byte("photos/user1/abc-dog.png")),
		resp.PhotoURL)

	failing := newTestPhotoDomain(&testutil.MockStorage{})
	_, err = failing.GetUploadURL(ctx, &model.GetPhotoUploadURLRequest{FileName: "a.png", ContentType: "image/png"})
	requireCode(t, err, errorx.Unavailable)
}

func Test_photoDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	uploaded := map[string]bool{}
	d := newTestPhotoDomain(&testutil.MockStorage{
		ExistsFunc: func(ctx context.Context, key string) (bool, error) {
			return uploaded[key], nil
		},
	})

	key := "photos/" + user.ID + "/abc-dog.png"

	_, err = d.Create(userCtx, &model.CreatePhotoRequest{Key: "photos/someone/abc-dog.png"})
	requireCode(t, err, errorx.InvalidInput)

	_, err = d.Create(userCtx, &model.CreatePhotoRequest{Key: key})
	requireCode(t, err, errorx.InvalidInput)

	uploaded[key] = true
	resp, err := d.Create(userCtx, &model.CreatePhotoRequest{Key: key, Caption: "  my dog  "})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Points)
	require.Zero(t, resp.NewTickets)
	require.Equal(t, "my dog", resp.Photo.Caption)
	require.Equal(t, user.ID, resp.Photo.User.ID)

	_, err = d.Create(userCtx, &model.CreatePhotoRequest{Key: key})
	requireCode(t, err, errorx.Conflict)

	stored, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), stored.TotalPoints)

	second := "photos/" + user.ID + "/def-cat.png"
	uploaded[second] = true
	resp, err = d.Create(userCtx, &model.CreatePhotoRequest{Key: second})
	require.NoError(t, err)
	require.Equal(t, 1, resp.NewTickets)

	list, err := d.GetList(ctx, &model.GetPhotosRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), list.Total)
	require.Len(t, list.Photos, 2)

	photo, err := d.Get(ctx, &model.GetPhotoRequest{ID: resp.Photo.ID})
	require.NoError(t, err)
	require.Equal(t, resp.Photo.ImageURL, photo.Photo.ImageURL)

	_, err = d.Get(ctx, &model.GetPhotoRequest{ID: "unknown"})
	requireCode(t, err, errorx.NotFound)

	transactions, err := repository.NewPointTransactionRepository().GetListByUserID(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	for _, tx := range transactions {
		require.Equal(t, entity.PointPhotoUpload, tx.Type)
	}
}

func Test_photoDomain_Create_StorageDown(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	d := newTestPhotoDomain(&testutil.MockStorage{
		ExistsFunc: func(ctx context.Context, key string) (bool, error) {
			return false, errors.New("connection refused")
		},
	})

	_, err := d.Create(ctx, &model.CreatePhotoRequest{Key: "photos/user1/a.png"})
	requireCode(t, err, errorx.Unavailable)
}

func Test_photoDomain_Create_LocksUserBeforeInsert(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	recorder := &lockRecorder{Ledger: newTestLedger(), table: "photo_uploads"}
	d := NewPhotoDomain(
		repository.NewPhotoRepository(),
		repository.NewPhotoCommentRepository(),
		recorder,
		newTestNotifier(),
		&testutil.MockStorage{
			ExistsFunc: func(ctx context.Context, key string) (bool, error) { return true, nil },
		},
	)

	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	for _, name := range []string{"a.png", "b.png"} {
		_, err := d.Create(userCtx, &model.CreatePhotoRequest{Key: "photos/" + user.ID + "/" + name})
		require.NoError(t, err)
	}
	require.Equal(t, []int64{0, 1}, recorder.rowsAtLock)

	ghostCtx := xcontext.WithRequestUserID(ctx, "ghost")
	_, err = d.Create(ghostCtx, &model.CreatePhotoRequest{Key: "photos/ghost/a.png"})
	requireCode(t, err, errorx.NotFound)

	n, err := repository.NewPhotoRepository().CountByUserID(ctx, "ghost")
	require.NoError(t, err)
	require.Zero(t, n)
}

func samplePhoto(t *testing.T, ctx context.Context, userID string) *entity.PhotoUpload {
	photo := &entity.PhotoUpload{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		StorageKey: "photos/" + userID + "/" + uuid.NewString(),
		ImageURL:   "/api/photos/serve/x",
	}
	require.NoError(t, repository.NewPhotoRepository().Create(ctx, photo))
	return photo
}

func Test_photoDomain_Comments(t *testing.T) {
	ctx := testutil.MockContext()
	uploader, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter, err := testutil.SampleUser(ctx, &entity.User{DisplayName: "Mei"})
	require.NoError(t, err)
	photo := samplePhoto(t, ctx, uploader.ID)

	published := 0
	d := NewPhotoDomain(
		repository.NewPhotoRepository(),
		repository.NewPhotoCommentRepository(),
		newTestLedger(),
		notification.New(repository.NewNotificationRepository(), &testutil.MockPublisher{
			PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
				published++
				return nil
			},
		}),
		&testutil.MockStorage{},
	)

	commenterCtx := xcontext.WithRequestUserID(ctx, commenter.ID)
	uploaderCtx := xcontext.WithRequestUserID(ctx, uploader.ID)

	_, err = d.CreateComment(commenterCtx, &model.CreatePhotoCommentRequest{PhotoID: photo.ID, Text: "   "})
	requireCode(t, err, errorx.InvalidInput)

	_, err = d.CreateComment(commenterCtx, &model.CreatePhotoCommentRequest{
		PhotoID: photo.ID,
		Text:    strings.Repeat("好", 501),
	})
	requireCode(t, err, errorx.InvalidInput)

	_, err = d.CreateComment(commenterCtx, &model.CreatePhotoCommentRequest{PhotoID: "unknown", Text: "hi"})
	requireCode(t, err, errorx.NotFound)

	resp, err := d.CreateComment(commenterCtx, &model.CreatePhotoCommentRequest{PhotoID: photo.ID, Text: "  nice  "})
	require.NoError(t, err)
	require.Equal(t, "nice", resp.Comment.Text)
	require.Equal(t, commenter.ID, resp.Comment.User.ID)

	_, err = d.CreateComment(commenterCtx, &model.CreatePhotoCommentRequest{
		PhotoID: photo.ID,
		Text:    strings.Repeat("好", 500),
	})
	require.NoError(t, err)

	notifications, err := repository.NewNotificationRepository().GetListByUserID(ctx, uploader.ID, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, entity.NotificationPhotoComment, notifications[0].Kind)
	require.Contains(t, notifications[0].Body, "Mei")
	require.Equal(t, 2, published)

	// Commenting on one's own photo notifies nobody.
	_, err = d.CreateComment(uploaderCtx, &model.CreatePhotoCommentRequest{PhotoID: photo.ID, Text: "thanks"})
	require.NoError(t, err)

	unread, err := repository.NewNotificationRepository().CountUnread(ctx, uploader.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), unread)
	unread, err = repository.NewNotificationRepository().CountUnread(ctx, commenter.ID)
	require.NoError(t, err)
	require.Zero(t, unread)
	require.Equal(t, 2, published)

	comments, err := d.GetComments(ctx, &model.GetPhotoCommentsRequest{PhotoID: photo.ID})
	require.NoError(t, err)
	require.Len(t, comments.Comments, 3)
	require.Equal(t, "nice", comments.Comments[0].Text)
	require.Equal(t, "thanks", comments.Comments[2].Text)
	require.Equal(t, uploader.ID, comments.Comments[2].User.ID)

	_, err = d.GetComments(ctx, &model.GetPhotoCommentsRequest{PhotoID: "unknown"})
	requireCode(t, err, errorx.NotFound)

	detail, err := d.Get(ctx, &model.GetPhotoRequest{ID: photo.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), detail.Photo.CommentCount)

	other := samplePhoto(t, ctx, commenter.ID)
	list, err := d.GetList(ctx, &model.GetPhotosRequest{})
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, p := range list.Photos {
		counts[p.ID] = p.CommentCount
	}
	require.Equal(t, map[string]int64{photo.ID: 3, other.ID: 0}, counts)
}
