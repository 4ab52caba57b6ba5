package service

import (
	"context"

	"campus/internal/domain"
	"campus/internal/repository"
)

// ListingService объявления о соседях и события кампуса
type ListingService struct {
	posts  repository.PostRepository
	events repository.EventRepository
}

func NewListingService(posts repository.PostRepository, events repository.EventRepository) *ListingService {
	return &ListingService{posts: posts, events: events}
}

// CreatePost создаёт объявление от имени пользователя
func (s *ListingService) CreatePost(ctx context.Context, user domain.Principal, post domain.RoommatePost) (*domain.RoommatePost, error) {
	if post.Location == "" || post.Contact == "" || post.Budget < 0 {
		return nil, ErrInvalidInput
	}
	post.UserID = user.ID
	if err := s.posts.Create(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts возвращает все объявления с именем автора
func (s *ListingService) ListPosts(ctx context.Context) ([]domain.RoommatePost, error) {
	return s.posts.List(ctx)
}

// ListEvents возвращает события по возрастанию даты
func (s *ListingService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.ListByDate(ctx)
}
