package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	"github.com/vecinohq/vecino/pkg/db"
	"github.com/vecinohq/vecino/pkg/db/option"
	"github.com/vecinohq/vecino/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	condorepo repository.Repository[condominiumdomain.Condominium]
	unitrepo  repository.Repository[condominiumdomain.Unit]
}

func NewService(p ServiceParam) condominiumdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("condominium.service"),
		genID: p.GenID,

		condorepo: repository.ProvideStore[condominiumdomain.Condominium](p.DB),
		unitrepo:  repository.ProvideStore[condominiumdomain.Unit](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req condominiumdomain.CreateCondominiumRequest) (condominiumdomain.Condominium, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return condominiumdomain.Condominium{}, condominiumdomain.ErrInvalidName
	}

	now := time.Now().UTC()
	condo := condominiumdomain.Condominium{
		ID:        s.genID.Generate(),
		Name:      name,
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.condorepo.Create(ctx, &condo); err != nil {
		return condominiumdomain.Condominium{}, err
	}

	return condo, nil
}

func (s *Service) List(ctx context.Context) ([]condominiumdomain.Condominium, error) {
	items, err := s.condorepo.Find(ctx, &condominiumdomain.Condominium{},
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}),
	)
	if err != nil {
		return nil, err
	}

	condos := make([]condominiumdomain.Condominium, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		condos = append(condos, *item)
	}
	return condos, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (condominiumdomain.Condominium, error) {
	condoID, err := parseID(id)
	if err != nil {
		return condominiumdomain.Condominium{}, condominiumdomain.ErrInvalidID
	}

	item, err := s.condorepo.FindOne(ctx, &condominiumdomain.Condominium{ID: condoID})
	if err != nil {
		return condominiumdomain.Condominium{}, err
	}
	if item == nil {
		return condominiumdomain.Condominium{}, condominiumdomain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req condominiumdomain.UpdateCondominiumRequest) (condominiumdomain.Condominium, error) {
	condo, err := s.GetByID(ctx, id)
	if err != nil {
		return condominiumdomain.Condominium{}, err
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return condominiumdomain.Condominium{}, condominiumdomain.ErrInvalidName
		}
		updates["name"] = name
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}

	if err := s.condorepo.Update(ctx, condo.ID.String(), updates); err != nil {
		return condominiumdomain.Condominium{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) CreateUnit(ctx context.Context, condominiumID string, req condominiumdomain.CreateUnitRequest) (condominiumdomain.Unit, error) {
	condo, err := s.GetByID(ctx, condominiumID)
	if err != nil {
		return condominiumdomain.Unit{}, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		return condominiumdomain.Unit{}, condominiumdomain.ErrInvalidNumber
	}
	owner := strings.TrimSpace(req.OwnerName)
	if owner == "" {
		return condominiumdomain.Unit{}, condominiumdomain.ErrInvalidName
	}
	if !condominiumdomain.ValidCoefficient(req.Coefficient) {
		return condominiumdomain.Unit{}, condominiumdomain.ErrInvalidCoefficient
	}

	now := time.Now().UTC()
	unit := condominiumdomain.Unit{
		ID:            s.genID.Generate(),
		CondominiumID: condo.ID,
		Number:        number,
		OwnerName:     owner,
		ContactEmail:  strings.TrimSpace(req.ContactEmail),
		Coefficient:   req.Coefficient,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.unitrepo.Create(ctx, &unit); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return condominiumdomain.Unit{}, condominiumdomain.ErrDuplicateNumber
		}
		return condominiumdomain.Unit{}, err
	}

	return unit, nil
}

func (s *Service) ListUnits(ctx context.Context, condominiumID string) ([]condominiumdomain.Unit, error) {
	condo, err := s.GetByID(ctx, condominiumID)
	if err != nil {
		return nil, err
	}

	items, err := s.unitrepo.Find(ctx, &condominiumdomain.Unit{CondominiumID: condo.ID})
	if err != nil {
		return nil, err
	}

	units := make([]condominiumdomain.Unit, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		units = append(units, *item)
	}
	return units, nil
}

func (s *Service) GetUnitByID(ctx context.Context, condominiumID, unitID string) (condominiumdomain.Unit, error) {
	condo, err := s.GetByID(ctx, condominiumID)
	if err != nil {
		return condominiumdomain.Unit{}, err
	}

	id, err := parseID(unitID)
	if err != nil {
		return condominiumdomain.Unit{}, condominiumdomain.ErrInvalidID
	}

	item, err := s.unitrepo.FindOne(ctx, &condominiumdomain.Unit{ID: id, CondominiumID: condo.ID})
	if err != nil {
		return condominiumdomain.Unit{}, err
	}
	if item == nil {
		return condominiumdomain.Unit{}, condominiumdomain.ErrUnitNotFound
	}

	return *item, nil
}

func (s *Service) UpdateUnit(ctx context.Context, condominiumID, unitID string, req condominiumdomain.UpdateUnitRequest) (condominiumdomain.Unit, error) {
	unit, err := s.GetUnitByID(ctx, condominiumID, unitID)
	if err != nil {
		return condominiumdomain.Unit{}, err
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.OwnerName != nil {
		owner := strings.TrimSpace(*req.OwnerName)
		if owner == "" {
			return condominiumdomain.Unit{}, condominiumdomain.ErrInvalidName
		}
		updates["owner_name"] = owner
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = strings.TrimSpace(*req.ContactEmail)
	}
	if req.Coefficient != nil {
		if !condominiumdomain.ValidCoefficient(*req.Coefficient) {
			return condominiumdomain.Unit{}, condominiumdomain.ErrInvalidCoefficient
		}
		updates["coefficient"] = *req.Coefficient
	}

	if err := s.unitrepo.Update(ctx, unit.ID.String(), updates); err != nil {
		return condominiumdomain.Unit{}, err
	}

	return s.GetUnitByID(ctx, condominiumID, unitID)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
