// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create creates a new expense in the database.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	expenseModel := model.ExpenseFromEntity(expense)
	return r.db.WithContext(ctx).Create(expenseModel).Error
}

// FindByID retrieves an expense by its ID.
func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// Query returns the user's expenses matching the query, newest first.
func (r *expenseRepository) Query(ctx context.Context, query adapter.ExpenseQuery) ([]*entity.ExpenseWithCategory, error) {
	db := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Preload("Category").
		Where("user_id = ?", query.UserID)

	// The period only applies when both month and year are given
	if query.Month != nil && query.Year != nil {
		start := time.Date(*query.Year, time.Month(*query.Month), 1, 0, 0, 0, 0, time.UTC)
		db = db.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	if query.CategoryID != nil {
		db = db.Where("category_id = ?", *query.CategoryID)
	}

	var expenseModels []model.ExpenseModel
	if err := db.Order("date DESC, created_at DESC").Find(&expenseModels).Error; err != nil {
		return nil, err
	}

	expenses := make([]*entity.ExpenseWithCategory, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToEntityWithCategory()
	}
	return expenses, nil
}

// Delete removes an expense from the database.
func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ExpenseModel{}, "id = ?", id).Error
}
