package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roosthq/roost/internal/api"
	"github.com/roosthq/roost/internal/collection"
	"github.com/roosthq/roost/internal/models"
)

// DirectoryService exposes users, roles and the role-assignment relationship.
type DirectoryService struct {
	client *api.Client
}

// NewDirectoryService creates a directory service on the given client.
func NewDirectoryService(client *api.Client) *DirectoryService {
	return &DirectoryService{client: client}
}

// Users lists directory users. Supported query parameter: search.
func (s *DirectoryService) Users(ctx context.Context, query url.Values) ([]models.User, error) {
	var users []models.User
	if err := s.client.Get(ctx, "/users", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Roles lists grantable roles.
func (s *DirectoryService) Roles(ctx context.Context, query url.Values) ([]models.Role, error) {
	var roles []models.Role
	if err := s.client.Get(ctx, "/roles", query, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// UserRoles lists the roles currently assigned to a user.
func (s *DirectoryService) UserRoles(ctx context.Context, userID string) ([]models.Role, error) {
	var roles []models.Role
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%s/roles", userID), nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole grants a role to a user.
func (s *DirectoryService) AssignRole(ctx context.Context, userID, roleID string) error {
	return s.client.Post(ctx, fmt.Sprintf("/users/%s/roles", userID), map[string]string{"roleId": roleID}, nil)
}

// RemoveRole revokes a role from a user.
func (s *DirectoryService) RemoveRole(ctx context.Context, userID, roleID string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/users/%s/roles/%s", userID, roleID))
}

// Matrix is the seeded state of the user x role assignment grid.
type Matrix struct {
	Users  []models.User
	Roles  []models.Role
	Toggle *collection.ToggleMatrix
}

// LoadMatrix fetches users, roles and each user's current assignments, and
// seeds a [collection.ToggleMatrix] wired to the assignment endpoints.
func (s *DirectoryService) LoadMatrix(ctx context.Context) (*Matrix, error) {
	users, err := s.Users(ctx, nil)
	if err != nil {
		return nil, err
	}
	roles, err := s.Roles(ctx, nil)
	if err != nil {
		return nil, err
	}

	toggle := collection.NewToggleMatrix(s.AssignRole, s.RemoveRole)
	for _, user := range users {
		assigned, err := s.UserRoles(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roles for %s: %w", user.ID, err)
		}
		ids := make([]string, len(assigned))
		for i, role := range assigned {
			ids[i] = role.ID
		}
		toggle.Seed(user.ID, ids)
	}

	return &Matrix{Users: users, Roles: roles, Toggle: toggle}, nil
}

// UserController binds a collection controller to the user list endpoint.
func (s *DirectoryService) UserController() *collection.Controller[models.User] {
	return collection.NewController(s.Users)
}

// RoleController binds a collection controller to the role list endpoint.
func (s *DirectoryService) RoleController() *collection.Controller[models.Role] {
	return collection.NewController(s.Roles)
}
