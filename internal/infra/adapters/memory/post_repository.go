package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

type postRepository struct {
	posts []*models.Post

	mu sync.Mutex
}

func NewPostRepository() repository.PostRepository {
	return &postRepository{}
}

func (r *postRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *post
	r.posts = append(r.posts, &stored)

	return nil
}

func (r *postRepository) ListByChannel(_ context.Context, channelID uuid.UUID) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []*models.Post

	for _, post := range r.posts {
		if post.ChannelID == channelID {
			stored := *post
			posts = append(posts, &stored)
		}
	}

	// Most recent first, matching the Postgres adapter.
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}
