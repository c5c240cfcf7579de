package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

type PostRepo interface {
	Insert(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter string) ([]domain.Post, error)
	Replace(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
}

type PostService struct {
	repo PostRepo
}

func NewPostService(repo PostRepo) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) Create(ctx context.Context, userID, caption string) (*domain.Post, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, fmt.Errorf("%w: caption required", domain.ErrValidation)
	}
	now := time.Now().UTC()
	p := &domain.Post{
		UserID:    userID,
		Caption:   caption,
		LikedBy:   []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, filter string) ([]domain.Post, error) {
	return s.repo.List(ctx, strings.TrimSpace(filter))
}

func (s *PostService) UpdateCaption(ctx context.Context, userID, postID, caption string) (*domain.Post, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, fmt.Errorf("%w: caption cannot be empty", domain.ErrValidation)
	}
	p, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	p.Caption = caption
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, postID)
}

// ToggleLike flips userID's like on a post and returns the new count and
// whether the post is now liked by them.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (int, bool, error) {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return 0, false, err
	}
	if p.LikedByUser(userID) {
		kept := p.LikedBy[:0]
		for _, id := range p.LikedBy {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.LikedBy = kept
	} else {
		p.LikedBy = append(p.LikedBy, userID)
	}
	p.Likes = len(p.LikedBy)
	if err := s.repo.Replace(ctx, p); err != nil {
		return 0, false, err
	}
	return p.Likes, p.LikedByUser(userID), nil
}

func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text cannot be empty", domain.ErrValidation)
	}
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	p.Comments = append(p.Comments, domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) EditComment(ctx context.Context, userID, postID, commentID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text cannot be empty", domain.ErrValidation)
	}
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	c := p.FindComment(commentID)
	if c == nil {
		return nil, fmt.Errorf("%w: comment", domain.ErrNotFound)
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("%w: not your comment", domain.ErrForbidden)
	}
	c.Text = text
	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) (*domain.Post, error) {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	c := p.FindComment(commentID)
	if c == nil {
		return nil, fmt.Errorf("%w: comment", domain.ErrNotFound)
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("%w: not your comment", domain.ErrForbidden)
	}
	kept := p.Comments[:0]
	for _, cm := range p.Comments {
		if cm.ID != commentID {
			kept = append(kept, cm)
		}
	}
	p.Comments = kept
	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) ownedPost(ctx context.Context, userID, postID string) (*domain.Post, error) {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("%w: not your post", domain.ErrForbidden)
	}
	return p, nil
}
