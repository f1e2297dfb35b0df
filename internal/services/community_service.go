// Package services – CommunityService
//
// Community names are unique after Unicode case folding (x/text/cases), so
// "Gophers" and "GOPHERS" collide. The creator becomes the first admin and
// cannot leave.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/realtime"
	"github.com/tbourn/go-social-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Categories lists the accepted community categories.
var Categories = []string{"general", "technology", "sports", "music", "gaming", "art", "science", "news", "other"}

const maxDescriptionRunes = 500

// CommunityInput is the payload of a new community.
type CommunityInput struct {
	Name        string
	Description string
	Category    string
	IsPrivate   bool
}

// CommunityService manages communities and memberships.
type CommunityService struct {
	DB      *gorm.DB
	Emitter realtime.Emitter
}

// NameKey returns the case-folded uniqueness key of a community name.
func NameKey(name string) string {
	return cases.Fold().String(normalizeSpace(name))
}

// Create registers a community with creatorID as admin.
func (s *CommunityService) Create(ctx context.Context, creatorID string, in CommunityInput) (*domain.Community, error) {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", creatorID)),
	)
	defer span.End()

	name := normalizeSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return nil, ErrInvalidCommunity
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = "general"
	}
	if !validCategory(category) {
		return nil, ErrInvalidCategory
	}
	desc := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(desc) > maxDescriptionRunes {
		return nil, ErrContentTooLong
	}

	c := &domain.Community{
		ID:          uuid.NewString(),
		Name:        name,
		NameKey:     NameKey(name),
		Description: desc,
		Category:    category,
		CreatorID:   creatorID,
		IsPrivate:   in.IsPrivate,
	}
	if err := repo.CreateCommunity(ctx, s.DB, c); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrCommunityExists
		}
		return nil, err
	}
	c.MembersCount = 1
	return c, nil
}

// Get returns a community with its member count.
func (s *CommunityService) Get(ctx context.Context, id string) (*domain.Community, error) {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("community.id", id)),
	)
	defer span.End()

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.MembersCount, err = repo.CountMembers(ctx, s.DB, id); err != nil {
		return nil, err
	}
	return c, nil
}

// Join adds userID as a member and tells the community staff.
func (s *CommunityService) Join(ctx context.Context, communityID, userID string) (*domain.CommunityMember, error) {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "Join",
		trace.WithAttributes(
			attribute.String("community.id", communityID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if _, err := s.find(ctx, communityID); err != nil {
		return nil, err
	}
	m, err := repo.AddMember(ctx, s.DB, communityID, userID, domain.RoleMember)
	if err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	staff, err := repo.ListStaffIDs(ctx, s.DB, communityID)
	if err == nil {
		payload := CommunityMemberPayload{CommunityID: communityID, UserID: userID}
		if u, err := repo.GetUser(ctx, s.DB, userID); err == nil {
			payload.User = u
		}
		emitToUsers(ctx, s.Emitter, staff, userID, EventNewCommunityMember, payload)
	}
	return m, nil
}

// Leave removes userID from a community. The creator cannot leave.
func (s *CommunityService) Leave(ctx context.Context, communityID, userID string) error {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "Leave",
		trace.WithAttributes(
			attribute.String("community.id", communityID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	c, err := s.find(ctx, communityID)
	if err != nil {
		return err
	}
	if c.CreatorID == userID {
		return ErrCreatorCannotLeave
	}
	if err := repo.RemoveMember(ctx, s.DB, communityID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotMember
		}
		return err
	}
	return nil
}

// ListMine returns the communities userID belongs to.
func (s *CommunityService) ListMine(ctx context.Context, userID string) ([]domain.Community, error) {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "ListMine",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	items, err := repo.ListCommunitiesForUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].MembersCount, err = repo.CountMembers(ctx, s.DB, items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Discover returns up to limit public communities userID has not joined,
// largest first. limit defaults to 10 and is capped at 50.
func (s *CommunityService) Discover(ctx context.Context, userID string, limit int) ([]domain.Community, error) {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "Discover",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	switch {
	case limit <= 0:
		limit = 10
	case limit > 50:
		limit = 50
	}
	items, err := repo.ListDiscoverable(ctx, s.DB, userID, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].MembersCount, err = repo.CountMembers(ctx, s.DB, items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Categories returns the categories in use with their community and member
// counts.
func (s *CommunityService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	tr := otel.Tracer("services/CommunityService")
	ctx, span := tr.Start(ctx, "Categories")
	defer span.End()

	return repo.CategoryCounts(ctx, s.DB)
}

// IsMember reports whether userID belongs to the community.
func (s *CommunityService) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	if _, err := repo.GetMember(ctx, s.DB, communityID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *CommunityService) find(ctx context.Context, id string) (*domain.Community, error) {
	c, err := repo.GetCommunity(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return c, nil
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
