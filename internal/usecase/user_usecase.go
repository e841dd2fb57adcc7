package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/borrowbook/internal/domain"
)

// UserUseCase handles registration, authentication and admin operations.
type UserUseCase struct {
	userRepo  UserRepository
	entryRepo EntryRepository
	idGen     IDGenerator
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository, entryRepo EntryRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
	}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a new user with a hashed password. New users always start
// as members; the admin role is only granted through Promote.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if err := domain.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyUsed
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		Phone:          input.Phone,
		HashedPassword: hashedPassword,
		Role:           domain.RoleMember,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// AuthenticateInput represents authentication input
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return sanitizeUser(user), nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// UserWithEntries pairs a user with all of their entries for the admin view.
type UserWithEntries struct {
	User    *domain.User
	Entries []*domain.Entry
}

// ListUsersWithEntries returns every user together with their entries.
// Admin-only; authorization is enforced at the HTTP layer.
func (uc *UserUseCase) ListUsersWithEntries(ctx context.Context, limit, offset int) ([]*UserWithEntries, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]*UserWithEntries, 0, len(users))
	for _, user := range users {
		entries, err := uc.entryRepo.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, &UserWithEntries{User: sanitizeUser(user), Entries: entries})
	}

	return result, nil
}

// Promote grants the admin role to a user.
func (uc *UserUseCase) Promote(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		return nil, domain.ErrAlreadyAdmin
	}

	user.Role = domain.RoleAdmin
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// sanitizeUser returns a copy with the password hash stripped, leaving the
// stored struct untouched.
func sanitizeUser(u *domain.User) *domain.User {
	sanitized := *u
	sanitized.HashedPassword = ""
	return &sanitized
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
