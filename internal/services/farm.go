package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roosthq/roost/internal/api"
	"github.com/roosthq/roost/internal/collection"
	"github.com/roosthq/roost/internal/models"
)

// FarmService exposes the farm operations endpoints.
type FarmService struct {
	client *api.Client
}

// NewFarmService creates a farm service on the given client.
func NewFarmService(client *api.Client) *FarmService {
	return &FarmService{client: client}
}

// Farms lists farms. Supported query parameters: search, active.
func (s *FarmService) Farms(ctx context.Context, query url.Values) ([]models.Farm, error) {
	var farms []models.Farm
	if err := s.client.Get(ctx, "/farms", query, &farms); err != nil {
		return nil, err
	}
	return farms, nil
}

// Farm retrieves a single farm by ID.
func (s *FarmService) Farm(ctx context.Context, id string) (*models.Farm, error) {
	farm := new(models.Farm)
	if err := s.client.Get(ctx, "/farms/"+id, nil, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

// CreateFarm creates a farm from a validated payload.
func (s *FarmService) CreateFarm(ctx context.Context, payload map[string]any) error {
	return s.client.Post(ctx, "/farms", payload, nil)
}

// UpdateFarm updates a farm.
func (s *FarmService) UpdateFarm(ctx context.Context, id string, payload map[string]any) error {
	return s.client.Put(ctx, "/farms/"+id, payload, nil)
}

// DeleteFarm deletes a farm.
func (s *FarmService) DeleteFarm(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/farms/"+id)
}

// Facilities lists facilities. Supported query parameters: farmId, kind, status.
func (s *FarmService) Facilities(ctx context.Context, query url.Values) ([]models.Facility, error) {
	var facilities []models.Facility
	if err := s.client.Get(ctx, "/facilities", query, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

// CreateFacility creates a facility.
func (s *FarmService) CreateFacility(ctx context.Context, payload map[string]any) error {
	return s.client.Post(ctx, "/facilities", payload, nil)
}

// UpdateFacility updates a facility.
func (s *FarmService) UpdateFacility(ctx context.Context, id string, payload map[string]any) error {
	return s.client.Put(ctx, "/facilities/"+id, payload, nil)
}

// DeleteFacility deletes a facility.
func (s *FarmService) DeleteFacility(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/facilities/"+id)
}

// FacilityUsers lists the users assigned to a facility.
func (s *FarmService) FacilityUsers(ctx context.Context, facilityID string) ([]models.User, error) {
	var users []models.User
	if err := s.client.Get(ctx, fmt.Sprintf("/facilities/%s/users", facilityID), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignFacilityUser assigns a user to a facility.
func (s *FarmService) AssignFacilityUser(ctx context.Context, facilityID, userID string) error {
	return s.client.Post(ctx, fmt.Sprintf("/facilities/%s/users", facilityID), map[string]string{"userId": userID}, nil)
}

// RemoveFacilityUser removes a user from a facility.
func (s *FarmService) RemoveFacilityUser(ctx context.Context, facilityID, userID string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/facilities/%s/users/%s", facilityID, userID))
}

// Chickens lists chicken records. Supported query parameters: farmId,
// facilityId, search, breed, healthy.
func (s *FarmService) Chickens(ctx context.Context, query url.Values) ([]models.Chicken, error) {
	var chickens []models.Chicken
	if err := s.client.Get(ctx, "/chickens", query, &chickens); err != nil {
		return nil, err
	}
	return chickens, nil
}

// CreateChicken registers a chicken.
func (s *FarmService) CreateChicken(ctx context.Context, payload map[string]any) error {
	return s.client.Post(ctx, "/chickens", payload, nil)
}

// UpdateChicken updates a chicken record.
func (s *FarmService) UpdateChicken(ctx context.Context, id string, payload map[string]any) error {
	return s.client.Put(ctx, "/chickens/"+id, payload, nil)
}

// DeleteChicken deletes a chicken record.
func (s *FarmService) DeleteChicken(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/chickens/"+id)
}

// FarmController binds a collection controller to the farm list endpoint.
func (s *FarmService) FarmController() *collection.Controller[models.Farm] {
	return collection.NewController(s.Farms)
}

// FacilityController binds a collection controller to the facility list endpoint.
func (s *FarmService) FacilityController() *collection.Controller[models.Facility] {
	return collection.NewController(s.Facilities)
}

// ChickenController binds a collection controller to the chicken list endpoint.
func (s *FarmService) ChickenController() *collection.Controller[models.Chicken] {
	return collection.NewController(s.Chickens)
}

// FarmFields is the mutation dialog schema for farms.
func FarmFields() []collection.Field {
	return []collection.Field{
		{Name: "name", Required: true},
		{Name: "location"},
		{Name: "ownerId"},
	}
}

// FacilityFields is the mutation dialog schema for facilities.
func FacilityFields() []collection.Field {
	return []collection.Field{
		{Name: "name", Required: true},
		{Name: "farmId", Required: true},
		{Name: "kind"},
		{Name: "capacity", Numeric: true},
	}
}

// ChickenFields is the mutation dialog schema for chicken records.
func ChickenFields() []collection.Field {
	return []collection.Field{
		{Name: "tag", Required: true},
		{Name: "farmId", Required: true},
		{Name: "facilityId"},
		{Name: "breed"},
		{Name: "sex"},
		{Name: "weightKg", Numeric: true},
	}
}
