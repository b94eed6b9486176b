package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/roosthq/roost/internal/collection"
	"github.com/roosthq/roost/internal/services"
	"github.com/roosthq/roost/internal/shared"
	"github.com/urfave/cli/v3"
)

// confirmFunc returns the destructive-action guard for a command: nil when
// --yes was passed, otherwise an interactive prompt.
func (r *Runner) confirmFunc(cmd *cli.Command) collection.ConfirmFunc {
	if cmd.Bool("yes") {
		return nil
	}
	return r.confirm
}

// reportDeclined maps a declined confirmation to a clean exit message.
func (r *Runner) reportDeclined(err error) error {
	if errors.Is(err, collection.ErrDeclined) {
		r.writePlain("aborted\n")
		return nil
	}
	return err
}

// FarmsList lists farms, optionally filtered by a search term.
func (r *Runner) FarmsList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.farm.FarmController()
	if s := cmd.String("search"); s != "" {
		ctrl.SetFilter("search", s)
	}

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load farms: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Farms (%d)", len(snap.Items)))
	for _, farm := range snap.Items {
		status := ""
		if !farm.Active {
			status = "  (inactive)"
		}
		r.writePlain("%s  %s  %s%s\n", farm.ID, farm.Name, farm.Location, status)
	}
	return nil
}

// FarmsCreate creates a farm from flag values.
func (r *Runner) FarmsCreate(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, services.FarmFields(), r.farm.CreateFarm, r.farm.DeleteFarm, nil)

	draft := map[string]string{
		"name":     cmd.String("name"),
		"location": cmd.String("location"),
		"ownerId":  cmd.String("owner"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}

	r.writePlain("✓ Farm created: %s\n", cmd.String("name"))
	return nil
}

// FarmsUpdate updates a farm's fields.
func (r *Runner) FarmsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: farm id", shared.ErrMissingArgument)
	}

	// Update drafts carry only the flags that were set, so required-field
	// validation applies to creates alone.
	submit := func(ctx context.Context, payload map[string]any) error {
		return r.farm.UpdateFarm(ctx, id, payload)
	}
	mut := collection.NewMutator(nil, nil, submit, nil, nil)

	draft := map[string]string{
		"name":     cmd.String("name"),
		"location": cmd.String("location"),
		"ownerId":  cmd.String("owner"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}

	r.writePlain("✓ Farm updated: %s\n", id)
	return nil
}

// FarmsDelete removes a farm after confirmation.
func (r *Runner) FarmsDelete(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, nil, nil, r.farm.DeleteFarm, r.confirmFunc(cmd))

	if err := mut.Remove(ctx, cmd.StringArg("id")); err != nil {
		return r.reportDeclined(err)
	}

	r.writePlain("✓ Farm deleted\n")
	return nil
}

// FacilitiesList lists facilities, optionally scoped to one farm.
func (r *Runner) FacilitiesList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.farm.FacilityController()
	if farmID := cmd.String("farm"); farmID != "" {
		ctrl.SetFilter("farmId", farmID)
	}

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load facilities: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Facilities (%d)", len(snap.Items)))
	for _, f := range snap.Items {
		r.writePlain("%s  %s  %s  capacity=%d  %s\n", f.ID, f.Name, f.Kind, f.Capacity, f.Status)
	}
	return nil
}

// FacilitiesCreate creates a facility from flag values.
func (r *Runner) FacilitiesCreate(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, services.FacilityFields(), r.farm.CreateFacility, r.farm.DeleteFacility, nil)

	draft := map[string]string{
		"name":     cmd.String("name"),
		"farmId":   cmd.String("farm"),
		"kind":     cmd.String("kind"),
		"capacity": cmd.String("capacity"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}

	r.writePlain("✓ Facility created: %s\n", cmd.String("name"))
	return nil
}

// FacilitiesUpdate updates a facility's fields.
func (r *Runner) FacilitiesUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: facility id", shared.ErrMissingArgument)
	}

	fields := []collection.Field{{Name: "capacity", Numeric: true}}
	submit := func(ctx context.Context, payload map[string]any) error {
		return r.farm.UpdateFacility(ctx, id, payload)
	}
	mut := collection.NewMutator(nil, fields, submit, nil, nil)

	draft := map[string]string{
		"name":     cmd.String("name"),
		"farmId":   cmd.String("farm"),
		"kind":     cmd.String("kind"),
		"capacity": cmd.String("capacity"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}

	r.writePlain("✓ Facility updated: %s\n", id)
	return nil
}

// FacilitiesDelete removes a facility after confirmation.
func (r *Runner) FacilitiesDelete(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, nil, nil, r.farm.DeleteFacility, r.confirmFunc(cmd))

	if err := mut.Remove(ctx, cmd.StringArg("id")); err != nil {
		return r.reportDeclined(err)
	}

	r.writePlain("✓ Facility deleted\n")
	return nil
}

// FacilityStaffList shows the users assigned to a facility.
func (r *Runner) FacilityStaffList(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: facility id", shared.ErrMissingArgument)
	}

	users, err := r.farm.FacilityUsers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load facility staff: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Staff (%d)", len(users)))
	for _, u := range users {
		r.writePlain("%s  %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}

// FacilityStaffAssign assigns a user to a facility.
func (r *Runner) FacilityStaffAssign(ctx context.Context, cmd *cli.Command) error {
	facilityID, userID := cmd.String("facility"), cmd.String("user")

	if err := r.farm.AssignFacilityUser(ctx, facilityID, userID); err != nil {
		return fmt.Errorf("failed to assign user: %w", err)
	}

	r.writePlain("✓ Assigned %s to %s\n", userID, facilityID)
	return nil
}

// FacilityStaffRemove removes a user from a facility.
func (r *Runner) FacilityStaffRemove(ctx context.Context, cmd *cli.Command) error {
	facilityID, userID := cmd.String("facility"), cmd.String("user")

	if err := r.farm.RemoveFacilityUser(ctx, facilityID, userID); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}

	r.writePlain("✓ Removed %s from %s\n", userID, facilityID)
	return nil
}

// ChickensList lists bird records with optional farm/facility scoping.
func (r *Runner) ChickensList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.farm.ChickenController()
	if farmID := cmd.String("farm"); farmID != "" {
		ctrl.SetFilter("farmId", farmID)
	}
	if facilityID := cmd.String("facility"); facilityID != "" {
		ctrl.SetFilter("facilityId", facilityID)
	}

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load birds: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Birds (%d)", len(snap.Items)))
	for _, c := range snap.Items {
		health := "healthy"
		if !c.Healthy {
			health = "needs attention"
		}
		r.writePlain("%s  %s  %s  %.2fkg  %s\n", c.ID, c.Tag, c.Breed, c.WeightKg, health)
	}
	return nil
}

// ChickensCreate creates a bird record from flag values.
func (r *Runner) ChickensCreate(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, services.ChickenFields(), r.farm.CreateChicken, r.farm.DeleteChicken, nil)

	draft := map[string]string{
		"tag":        cmd.String("tag"),
		"farmId":     cmd.String("farm"),
		"facilityId": cmd.String("facility"),
		"breed":      cmd.String("breed"),
		"sex":        cmd.String("sex"),
		"weightKg":   cmd.String("weight"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to create bird: %w", err)
	}

	r.writePlain("✓ Bird created: %s\n", cmd.String("tag"))
	return nil
}

// ChickensUpdate updates a bird record.
func (r *Runner) ChickensUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: bird id", shared.ErrMissingArgument)
	}

	fields := []collection.Field{{Name: "weightKg", Numeric: true}}
	submit := func(ctx context.Context, payload map[string]any) error {
		return r.farm.UpdateChicken(ctx, id, payload)
	}
	mut := collection.NewMutator(nil, fields, submit, nil, nil)

	draft := map[string]string{
		"tag":        cmd.String("tag"),
		"farmId":     cmd.String("farm"),
		"facilityId": cmd.String("facility"),
		"breed":      cmd.String("breed"),
		"sex":        cmd.String("sex"),
		"weightKg":   cmd.String("weight"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to update bird: %w", err)
	}

	r.writePlain("✓ Bird updated: %s\n", id)
	return nil
}

// ChickensDelete removes a bird record after confirmation.
func (r *Runner) ChickensDelete(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, nil, nil, r.farm.DeleteChicken, r.confirmFunc(cmd))

	if err := mut.Remove(ctx, cmd.StringArg("id")); err != nil {
		return r.reportDeclined(err)
	}

	r.writePlain("✓ Bird deleted\n")
	return nil
}
