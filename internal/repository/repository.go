// Package repository provides gorm-backed data access for the entities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound matches every *NotFoundError.
var ErrNotFound = errors.New("record not found")

// NotFoundError names the missing entity.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// alwaysSelected are returned even when a field selection is requested.
var alwaysSelected = []string{"id", "created_at", "updated_at", "deleted_at"}

// Repository implements CRUD for one entity type. Deletes are soft when T
// embeds gorm.DeletedAt.
type Repository[T any] struct {
	db       *gorm.DB
	resource string
}

// New creates a repository; resource names the entity in not-found errors.
func New[T any](db *gorm.DB, resource string) *Repository[T] {
	return &Repository[T]{db: db, resource: resource}
}

// DB returns the underlying handle scoped to ctx.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// GetAll returns one page of entities matching q.
func (r *Repository[T]) GetAll(ctx context.Context, q Query) (Collection[T], error) {
	page := q.Page.normalized()
	filter := func(tx *gorm.DB) *gorm.DB {
		for col, val := range q.Filter {
			tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: val})
		}
		return tx
	}

	var total int64
	if err := r.DB(ctx).Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return Collection[T]{}, fmt.Errorf("count %s: %w", r.resource, err)
	}

	tx := r.DB(ctx).Model(new(T)).Scopes(filter)
	if len(q.Fields) > 0 {
		tx = tx.Select(append(append([]string{}, alwaysSelected...), q.Fields...))
	}
	for _, o := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Direction == Desc})
	}
	if len(q.Sort) == 0 {
		tx = tx.Order("id")
	}

	items := make([]T, 0, page.Size)
	if err := tx.Limit(page.Size).Offset(page.Offset()).Find(&items).Error; err != nil {
		return Collection[T]{}, fmt.Errorf("list %s: %w", r.resource, err)
	}

	return Collection[T]{
		Data:       items,
		PageNumber: page.Number,
		PageSize:   page.Size,
		PageCount:  pageCount(total, page.Size),
		ItemCount:  int(total),
	}, nil
}

// GetOneByID returns nil and no error when the entity does not exist.
func (r *Repository[T]) GetOneByID(ctx context.Context, id uint) (*T, error) {
	return r.first(ctx, "id = ?", id)
}

// GetOneByIDOrFail returns a *NotFoundError when the entity does not exist.
func (r *Repository[T]) GetOneByIDOrFail(ctx context.Context, id uint) (*T, error) {
	e, err := r.GetOneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &NotFoundError{Resource: r.resource, ID: id}
	}
	return e, nil
}

// Create inserts e and fills its generated columns.
func (r *Repository[T]) Create(ctx context.Context, e *T) error {
	if err := r.DB(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.resource, err)
	}
	return nil
}

// UpdateOneOrFail applies column updates to entity id and returns the
// reloaded entity.
func (r *Repository[T]) UpdateOneOrFail(ctx context.Context, id uint, updates map[string]any) (*T, error) {
	e, err := r.GetOneByIDOrFail(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := r.DB(ctx).Model(e).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update %s %d: %w", r.resource, id, err)
		}
	}
	return r.GetOneByIDOrFail(ctx, id)
}

// DeleteOneOrFail soft-deletes entity id.
func (r *Repository[T]) DeleteOneOrFail(ctx context.Context, id uint) error {
	e, err := r.GetOneByIDOrFail(ctx, id)
	if err != nil {
		return err
	}
	if err := r.DB(ctx).Delete(e).Error; err != nil {
		return fmt.Errorf("delete %s %d: %w", r.resource, id, err)
	}
	return nil
}

func (r *Repository[T]) first(ctx context.Context, query string, args ...any) (*T, error) {
	e := new(T)
	err := r.DB(ctx).Where(query, args...).First(e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.resource, err)
	}
	return e, nil
}
