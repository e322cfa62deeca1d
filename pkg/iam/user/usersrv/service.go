package usersrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/ptrx"
)

type UserService struct {
	repo   user.UserRepository
	hasher user.PasswordHasher
	audit  auth.AuditService
}

func NewUserService(repo user.UserRepository, hasher user.PasswordHasher, audit auth.AuditService) *UserService {
	return &UserService{repo: repo, hasher: hasher, audit: audit}
}

var _ user.RoleChecker = (*UserService)(nil)

// CreateUser registers an ano, clerk or co account
func (s *UserService) CreateUser(ctx context.Context, actor kernel.UserID, req user.CreateUserRequest) (*user.UserDTO, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = user.NormalizeEmail(req.Email)
	if err := kernel.Validate(req); err != nil {
		return nil, err
	}
	return s.create(ctx, actor, req.Name, req.Email, req.Password, req.Role)
}

// CreateAdmin registers an administrator. Only the CLI calls this.
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (*user.UserDTO, error) {
	if strings.TrimSpace(name) == "" || len(password) < 6 {
		return nil, errx.Validation("name and a password of at least 6 characters are required")
	}
	return s.create(ctx, "", name, email, password, iam.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, actor kernel.UserID, name, email, password string, role iam.Role) (*user.UserDTO, error) {
	email = user.NormalizeEmail(email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailTaken().WithDetail("email", email)
	} else if !errx.IsType(err, errx.TypeNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           kernel.NewID[kernel.UserID](),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.audit.LogAccountCreated(ctx, u.ID, role, actor)
	dto := u.ToDTO()
	return &dto, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id kernel.UserID, req user.UpdateUserRequest) (*user.UserDTO, error) {
	req.Name = ptrx.TrimmedString(req.Name)
	if req.Email != nil {
		req.Email = ptrx.String(user.NormalizeEmail(*req.Email))
	}
	if err := kernel.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == iam.RoleAdmin {
		return nil, user.ErrAdminProtected()
	}

	ptrx.Apply(&u.Name, req.Name)
	if req.Email != nil {
		email := *req.Email
		if email != u.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != u.ID:
				return nil, user.ErrEmailTaken().WithDetail("email", email)
			case err != nil && !errx.IsType(err, errx.TypeNotFound):
				return nil, err
			}
			u.Email = email
		}
	}
	ptrx.Apply(&u.Role, req.Role)
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, *u); err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor, id kernel.UserID) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == iam.RoleAdmin {
		return user.ErrAdminProtected()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogEvent(ctx, "account_deleted", map[string]any{"user_id": id, "actor": actor, "role": u.Role})
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id kernel.UserID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// ListUsers never returns administrators
func (s *UserService) ListUsers(ctx context.Context, query string, role iam.Role) (*user.UserListResponse, error) {
	users, err := s.repo.List(ctx, user.ListFilter{Query: query, Role: role})
	if err != nil {
		return nil, err
	}
	resp := &user.UserListResponse{Users: make([]user.UserDTO, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, u.ToDTO())
	}
	resp.Total = len(resp.Users)
	return resp, nil
}

// Officers lists the users that can be assigned to a role slot
func (s *UserService) Officers(ctx context.Context, role iam.Role) ([]user.UserDTO, error) {
	if !role.IsValid() || role == iam.RoleAdmin {
		return nil, iam.ErrInvalidRole().WithDetail("role", role)
	}
	list, err := s.ListUsers(ctx, "", role)
	if err != nil {
		return nil, err
	}
	return list.Users, nil
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// RequireRole loads ids and fails unless every one exists with role
func (s *UserService) RequireRole(ctx context.Context, role iam.Role, ids ...kernel.UserID) ([]*user.User, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UserID]*user.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, user.ErrUserNotFound().WithDetail("user_id", id)
		}
		if u.Role != role {
			return nil, user.ErrWrongRole().
				WithDetail("user_id", id).
				WithDetail("expected", role).
				WithDetail("actual", u.Role)
		}
		out = append(out, u)
	}
	return out, nil
}
