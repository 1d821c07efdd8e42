package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/jwt"
)

type ProfileOutput struct {
	ID          int64
	PhoneNumber string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	DateJoined  time.Time
}

func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	p, err := s.repoDB.GetProfile(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "identity not found for token", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get profile", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return toProfileOutput(p), nil
}

func toProfileOutput(p *entity.Profile) *ProfileOutput {
	out := &ProfileOutput{
		ID:          p.ID,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateJoined:  p.DateJoined,
	}
	if p.Username != nil {
		out.Username = *p.Username
	}

	return out
}
