package category

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type memoryCategoryRepository struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newMemoryCategoryRepository(categories ...*entity.Category) *memoryCategoryRepository {
	repo := &memoryCategoryRepository{categories: make(map[uuid.UUID]*entity.Category)}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *memoryCategoryRepository) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return nil
}

func (r *memoryCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, domainerror.ErrCategoryNotFound
}

func (r *memoryCategoryRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memoryCategoryRepository) ExistsByNameAndUser(_ context.Context, name string, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func TestCreateCategoryUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	otherUserID := uuid.New()

	tests := []struct {
		name         string
		input        CreateCategoryInput
		expectedName string
		expectedCode domainerror.CategoryErrorCode
	}{
		{
			name:         "valid name is trimmed",
			input:        CreateCategoryInput{UserID: userID, Name: "  Travel  "},
			expectedName: "Travel",
		},
		{
			name:         "same name for another user",
			input:        CreateCategoryInput{UserID: otherUserID, Name: "Food"},
			expectedName: "Food",
		},
		{
			name:         "blank name",
			input:        CreateCategoryInput{UserID: userID, Name: "   "},
			expectedCode: domainerror.ErrCodeCategoryNameRequired,
		},
		{
			name:         "name too long",
			input:        CreateCategoryInput{UserID: userID, Name: strings.Repeat("a", MaxCategoryNameLength+1)},
			expectedCode: domainerror.ErrCodeCategoryNameTooLong,
		},
		{
			name:         "name at the limit",
			input:        CreateCategoryInput{UserID: userID, Name: strings.Repeat("é", MaxCategoryNameLength)},
			expectedName: strings.Repeat("é", MaxCategoryNameLength),
		},
		{
			name:         "duplicate name",
			input:        CreateCategoryInput{UserID: userID, Name: "Food"},
			expectedCode: domainerror.ErrCodeCategoryNameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryCategoryRepository(entity.NewCategory(userID, "Food"))
			uc := NewCreateCategoryUseCase(repo)

			output, err := uc.Execute(context.Background(), tt.input)

			if tt.expectedCode != "" {
				var catErr *domainerror.CategoryError
				if !errors.As(err, &catErr) {
					t.Fatalf("expected CategoryError, got %v", err)
				}
				if catErr.Code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, catErr.Code)
				}
				if catErr.Field != "name" {
					t.Errorf("expected field name, got %q", catErr.Field)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.Category.Name != tt.expectedName {
				t.Errorf("expected name %q, got %q", tt.expectedName, output.Category.Name)
			}
			if output.Category.UserID != tt.input.UserID {
				t.Errorf("expected owner %s, got %s", tt.input.UserID, output.Category.UserID)
			}
			if _, err := repo.FindByID(context.Background(), output.Category.ID); err != nil {
				t.Error("expected category to be stored")
			}
		})
	}
}

func TestListCategoriesUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	repo := newMemoryCategoryRepository(
		entity.NewCategory(userID, "Rent"),
		entity.NewCategory(userID, "Food"),
		entity.NewCategory(uuid.New(), "Hidden"),
	)

	output, err := NewListCategoriesUseCase(repo).Execute(context.Background(), ListCategoriesInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(output.Categories))
	}
	if output.Categories[0].Name != "Food" || output.Categories[1].Name != "Rent" {
		t.Errorf("expected [Food Rent], got [%s %s]", output.Categories[0].Name, output.Categories[1].Name)
	}

	empty, err := NewListCategoriesUseCase(repo).Execute(context.Background(), ListCategoriesInput{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Categories == nil || len(empty.Categories) != 0 {
		t.Errorf("expected an empty, non-nil list, got %v", empty.Categories)
	}
}

func TestDeleteCategoryUseCase_Execute(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name         string
		owner        uuid.UUID
		deleteID     func(existing uuid.UUID) uuid.UUID
		expectDelete bool
	}{
		{
			name:         "owner deletes category",
			owner:        userID,
			deleteID:     func(existing uuid.UUID) uuid.UUID { return existing },
			expectDelete: true,
		},
		{
			name:     "unknown category",
			owner:    userID,
			deleteID: func(uuid.UUID) uuid.UUID { return uuid.New() },
		},
		{
			name:     "category of another user",
			owner:    uuid.New(),
			deleteID: func(existing uuid.UUID) uuid.UUID { return existing },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := entity.NewCategory(tt.owner, "Food")
			repo := newMemoryCategoryRepository(existing)
			uc := NewDeleteCategoryUseCase(repo)

			output, err := uc.Execute(context.Background(), DeleteCategoryInput{
				CategoryID: tt.deleteID(existing.ID),
				UserID:     userID,
			})

			_, findErr := repo.FindByID(context.Background(), existing.ID)
			if tt.expectDelete {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !output.Success {
					t.Error("expected success")
				}
				if findErr == nil {
					t.Error("expected category to be removed")
				}
				return
			}

			var catErr *domainerror.CategoryError
			if !errors.As(err, &catErr) || catErr.Code != domainerror.ErrCodeCategoryNotFound {
				t.Fatalf("expected %s, got %v", domainerror.ErrCodeCategoryNotFound, err)
			}
			if findErr != nil {
				t.Error("expected category to be kept")
			}
		})
	}
}
