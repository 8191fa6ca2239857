package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// PostUsecase is the content boundary. Posting is the content-producing
// interaction that auto-joins visitors to public channels.
type PostUsecase interface {
	CreatePost(ctx context.Context, actor models.Identity, channelID uuid.UUID, body string) (*models.Post, error)
	ListPosts(ctx context.Context, actor models.Identity, channelID uuid.UUID) ([]*models.Post, error)
}

type postUsecase struct {
	postRepo    repository.PostRepository
	channelRepo repository.ChannelRepository
	membership  MembershipUsecase
}

func NewPostUsecase(
	postRepo repository.PostRepository,
	channelRepo repository.ChannelRepository,
	membership MembershipUsecase,
) PostUsecase {
	return &postUsecase{
		postRepo:    postRepo,
		channelRepo: channelRepo,
		membership:  membership,
	}
}

func (uc *postUsecase) CreatePost(ctx context.Context, actor models.Identity, channelID uuid.UUID, body string) (*models.Post, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	// Auto-join runs before content validation: attempting to post is
	// itself the membership-granting interaction.
	if channel.Visibility == models.VisibilityPublic &&
		!channel.Members.Has(actor.ID) &&
		!channel.BannedUsers.Has(actor.ID) {
		channel, err = uc.membership.AutoJoin(ctx, actor, channelID)
		if err != nil {
			return nil, err
		}
	}

	if err := requireCapability(channel, actor, role.CapPost); err != nil {
		return nil, err
	}

	if body == "" {
		return nil, apperrors.New(apperrors.KindInvalidState, "body is required")
	}

	post := models.NewPost(channelID, actor.ID, body)

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

func (uc *postUsecase) ListPosts(ctx context.Context, actor models.Identity, channelID uuid.UUID) ([]*models.Post, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapView); err != nil {
		return nil, err
	}

	return uc.postRepo.ListByChannel(ctx, channelID)
}
