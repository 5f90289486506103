package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/lead-crm/internal/domain/booking"
	"github.com/BruksfildServices01/lead-crm/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var _ domain.Repository = (*BookingGormRepository)(nil)

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) Create(
	ctx context.Context,
	b *models.Booking,
) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error; err != nil {
		return err
	}
	return r.loadAgent(ctx, b)
}

func (r *BookingGormRepository) ListForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var list []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Agent").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BookingGormRepository) GetForUser(
	ctx context.Context,
	id string,
	userID uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Agent").
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) Update(
	ctx context.Context,
	b *models.Booking,
) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error; err != nil {
		return err
	}
	return r.loadAgent(ctx, b)
}

func (r *BookingGormRepository) Delete(
	ctx context.Context,
	id string,
	userID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) loadAgent(ctx context.Context, b *models.Booking) error {
	b.Agent = nil
	if b.AgentID == nil {
		return nil
	}
	agent, err := r.GetAgent(ctx, *b.AgentID)
	if err != nil {
		return err
	}
	b.Agent = agent
	return nil
}

// --------------------------------------------------
// Agent
// --------------------------------------------------

func (r *BookingGormRepository) GetAgent(
	ctx context.Context,
	id string,
) (*models.Agent, error) {

	var agent models.Agent
	err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *BookingGormRepository) ListAgents(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}
