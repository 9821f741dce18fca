package certifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

type workflow interface {
	Submit(ctx context.Context, actor moderation.Actor, entity *models.Certification) (*models.Certification, error)
	Edit(ctx context.Context, actor moderation.Actor, id uuid.UUID, patch func(*models.Certification) error) (*models.Certification, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*models.Certification, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]*models.Certification, pagination.Meta, error)
	ListPublic(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]*models.Certification, pagination.Meta, error)
}

// Service manages a salesperson's professional certifications.
type Service interface {
	Create(ctx context.Context, actor moderation.Actor, input CreateCertificationInput) (*CertificationDTO, error)
	Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateCertificationInput) (*CertificationDTO, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*CertificationDTO, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]CertificationDTO, pagination.Meta, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]CertificationDTO, pagination.Meta, error)
}

type service struct {
	wf workflow
}

func NewService(wf workflow) (Service, error) {
	if wf == nil {
		return nil, fmt.Errorf("certification workflow required")
	}
	return &service{wf: wf}, nil
}

func (s *service) Create(ctx context.Context, actor moderation.Actor, input CreateCertificationInput) (*CertificationDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Issuer = strings.TrimSpace(input.Issuer)
	if input.Name == "" || input.Issuer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and issuer are required")
	}
	if err := validateDates(input.IssuedOn, input.ExpiresOn); err != nil {
		return nil, err
	}
	if err := validateDocument(input.Document, input.DocumentMime); err != nil {
		return nil, err
	}
	cert, err := s.wf.Submit(ctx, actor, input.ToModel(actor.ID))
	if err != nil {
		return nil, err
	}
	return FromModel(cert), nil
}

func (s *service) Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateCertificationInput) (*CertificationDTO, error) {
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	for _, field := range []**string{&input.Name, &input.Issuer} {
		if *field == nil {
			continue
		}
		v := strings.TrimSpace(**field)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and issuer cannot be blank")
		}
		*field = &v
	}
	if input.Document != nil {
		if err := validateDocument(input.Document, input.DocumentMime); err != nil {
			return nil, err
		}
	}
	cert, err := s.wf.Edit(ctx, actor, id, func(c *models.Certification) error {
		input.Apply(c)
		return validateDates(c.IssuedOn, c.ExpiresOn)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(cert), nil
}

func (s *service) Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error {
	return s.wf.Delete(ctx, actor, id)
}

func (s *service) Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*CertificationDTO, error) {
	cert, err := s.wf.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return FromModel(cert), nil
}

func (s *service) ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]CertificationDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListMine(ctx, actor, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

// ListForOwner returns a salesperson's approved certifications.
func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]CertificationDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListPublic(ctx, &ownerID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

func validateDates(issued, expires *time.Time) error {
	if issued != nil && expires != nil && expires.Before(*issued) {
		return pkgerrors.New(pkgerrors.CodeValidation, "expires_on must not be before issued_on").
			WithDetails(map[string]string{"expires_on": "gtefield"})
	}
	return nil
}

func validateDocument(doc []byte, mime *string) error {
	if len(doc) == 0 {
		return nil
	}
	if len(doc) > MaxDocumentBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "document too large").
			WithDetails(map[string]string{"document": "max"})
	}
	if mime == nil || strings.TrimSpace(*mime) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "document_mime is required with document").
			WithDetails(map[string]string{"document_mime": "required_with"})
	}
	return nil
}
