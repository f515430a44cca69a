package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tau-rai/fintrekapi/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, CURRENT_TIMESTAMP)
		RETURNING id, is_active, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, is_active, created_at
		FROM users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, is_active, created_at
		FROM users
		WHERE username = $1`
	err := r.db.QueryRow(query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, is_active, created_at
		FROM users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserProfile updates a user's first and last name and returns the
// updated user
func (r *Repository) UpdateUserProfile(userID int64, firstName, lastName string) (*models.User, error) {
	user := &models.User{}
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3
		WHERE id = $1
		RETURNING id, username, email, first_name, last_name, password_hash, is_active, created_at`
	err := r.db.QueryRow(query, userID, firstName, lastName).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ListActiveUsers retrieves all active users
func (r *Repository) ListActiveUsers() ([]*models.User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, is_active, created_at
		FROM users
		WHERE is_active = TRUE
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.PasswordHash, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateCategory creates a new category for a user
func (r *Repository) CreateCategory(category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id`
	err := r.db.QueryRow(query, category.UserID, category.Name).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories retrieves all categories owned by a user
func (r *Repository) ListCategories(userID int64) ([]*models.Category, error) {
	query := `SELECT id, user_id, name FROM categories WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// DeleteCategory deletes a category owned by the given user
func (r *Repository) DeleteCategory(id, userID int64) error {
	result, err := r.db.Exec(`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}
