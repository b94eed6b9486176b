// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// farmsCommand handles farm record operations
func farmsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "farms",
		Usage: "Manage farm records",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List farms",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter farms by name",
					},
				),
				Action: r.FarmsList,
			},
			{
				Name:  "create",
				Usage: "Create a farm",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Farm name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Farm location",
					},
					&cli.StringFlag{
						Name:  "owner",
						Usage: "Owner user ID",
					},
				},
				Action: r.FarmsCreate,
			},
			{
				Name:  "update",
				Usage: "Update a farm",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Farm name",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Farm location",
					},
					&cli.StringFlag{
						Name:  "owner",
						Usage: "Owner user ID",
					},
				},
				Action: r.FarmsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a farm",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.FarmsDelete,
			},
		},
	}
}

// facilitiesCommand handles facility operations
func facilitiesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "facilities",
		Aliases: []string{"fac"},
		Usage:   "Manage farm facilities",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List facilities",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:  "farm",
						Usage: "Filter by farm ID",
					},
				),
				Action: r.FacilitiesList,
			},
			{
				Name:  "create",
				Usage: "Create a facility",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Facility name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "farm",
						Usage:    "Owning farm ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Facility kind (coop, barn, hatchery)",
					},
					&cli.StringFlag{
						Name:  "capacity",
						Usage: "Bird capacity",
					},
				},
				Action: r.FacilitiesCreate,
			},
			{
				Name:  "update",
				Usage: "Update a facility",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Facility name",
					},
					&cli.StringFlag{
						Name:  "farm",
						Usage: "Owning farm ID",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Facility kind",
					},
					&cli.StringFlag{
						Name:  "capacity",
						Usage: "Bird capacity",
					},
				},
				Action: r.FacilitiesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a facility",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.FacilitiesDelete,
			},
			{
				Name:  "staff",
				Usage: "Manage facility staff assignments",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List users assigned to a facility",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags:  jsonFlags(),
						Action: r.FacilityStaffList,
					},
					{
						Name:  "assign",
						Usage: "Assign a user to a facility",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "facility",
								Usage:    "Facility ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "user",
								Usage:    "User ID",
								Required: true,
							},
						},
						Action: r.FacilityStaffAssign,
					},
					{
						Name:  "remove",
						Usage: "Remove a user from a facility",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "facility",
								Usage:    "Facility ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "user",
								Usage:    "User ID",
								Required: true,
							},
						},
						Action: r.FacilityStaffRemove,
					},
				},
			},
		},
	}
}

// chickensCommand handles bird record operations
func chickensCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "chickens",
		Aliases: []string{"birds"},
		Usage:   "Manage bird records",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List birds",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:  "farm",
						Usage: "Filter by farm ID",
					},
					&cli.StringFlag{
						Name:  "facility",
						Usage: "Filter by facility ID",
					},
				),
				Action: r.ChickensList,
			},
			{
				Name:  "create",
				Usage: "Create a bird record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tag",
						Usage:    "Bird tag",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "farm",
						Usage:    "Owning farm ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "facility",
						Usage: "Housing facility ID",
					},
					&cli.StringFlag{
						Name:  "breed",
						Usage: "Breed",
					},
					&cli.StringFlag{
						Name:  "sex",
						Usage: "hen or rooster",
					},
					&cli.StringFlag{
						Name:  "weight",
						Usage: "Weight in kilograms",
					},
				},
				Action: r.ChickensCreate,
			},
			{
				Name:  "update",
				Usage: "Update a bird record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Bird tag",
					},
					&cli.StringFlag{
						Name:  "farm",
						Usage: "Owning farm ID",
					},
					&cli.StringFlag{
						Name:  "facility",
						Usage: "Housing facility ID",
					},
					&cli.StringFlag{
						Name:  "breed",
						Usage: "Breed",
					},
					&cli.StringFlag{
						Name:  "sex",
						Usage: "hen or rooster",
					},
					&cli.StringFlag{
						Name:  "weight",
						Usage: "Weight in kilograms",
					},
				},
				Action: r.ChickensUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a bird record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.ChickensDelete,
			},
		},
	}
}

// usersCommand handles directory user operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Browse directory users",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter users by name or email",
					},
				),
				Action: r.UsersList,
			},
		},
	}
}

// rolesCommand handles the user/role assignment matrix
func rolesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "roles",
		Usage: "Manage user role assignments",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List roles",
				Flags:  jsonFlags(),
				Action: r.RolesList,
			},
			{
				Name:   "matrix",
				Usage:  "Show the full user x role assignment matrix",
				Action: r.RolesMatrix,
			},
			{
				Name:  "grant",
				Usage: "Grant a role to a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Usage:    "User ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "role",
						Usage:    "Role ID",
						Required: true,
					},
				},
				Action: r.RolesGrant,
			},
			{
				Name:  "revoke",
				Usage: "Revoke a role from a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Usage:    "User ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "role",
						Usage:    "Role ID",
						Required: true,
					},
				},
				Action: r.RolesRevoke,
			},
		},
	}
}

// studioCommand handles the presentation production suite
func studioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "studio",
		Usage: "Presentation production operations",
		Commands: []*cli.Command{
			{
				Name:  "presentations",
				Usage: "Manage presentations",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List presentations",
						Flags: append(jsonFlags(),
							&cli.StringFlag{
								Name:  "search",
								Usage: "Filter presentations by title",
							},
							&cli.StringFlag{
								Name:  "tag",
								Usage: "Filter presentations by tag",
							},
						),
						Action: r.StudioPresentationsList,
					},
					{
						Name:  "create",
						Usage: "Create a presentation",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "title",
								Usage:    "Presentation title",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "author",
								Usage: "Author name",
							},
						},
						Action: r.StudioPresentationsCreate,
					},
					{
						Name:  "delete",
						Usage: "Delete a presentation",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "yes",
								Usage: "Skip the confirmation prompt",
							},
						},
						Action: r.StudioPresentationsDelete,
					},
				},
			},
			{
				Name:  "media",
				Usage: "Manage the media library",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List media items",
						Flags:  jsonFlags(),
						Action: r.StudioMediaList,
					},
					{
						Name:  "delete",
						Usage: "Delete a media item",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "yes",
								Usage: "Skip the confirmation prompt",
							},
						},
						Action: r.StudioMediaDelete,
					},
				},
			},
			{
				Name:  "playlists",
				Usage: "Manage playlists",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List playlists",
						Flags:  jsonFlags(),
						Action: r.StudioPlaylistsList,
					},
					{
						Name:  "show",
						Usage: "Show a playlist's ordered items",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags:  jsonFlags(),
						Action: r.StudioPlaylistsShow,
					},
					{
						Name:  "add",
						Usage: "Add an item to a playlist",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "ref",
								Usage:    "Presentation or media ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "kind",
								Usage: "Entry kind (presentation or media)",
								Value: "presentation",
							},
						},
						Action: r.StudioPlaylistsAdd,
					},
					{
						Name:  "remove",
						Usage: "Remove an item from a playlist",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "item",
								Usage:    "Playlist item ID",
								Required: true,
							},
						},
						Action: r.StudioPlaylistsRemove,
					},
					{
						Name:  "move",
						Usage: "Move a playlist item to a new position",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:     "from",
								Usage:    "Current position (zero-based)",
								Required: true,
							},
							&cli.IntFlag{
								Name:     "to",
								Usage:    "Target position (zero-based)",
								Required: true,
							},
						},
						Action: r.StudioPlaylistsMove,
					},
				},
			},
			{
				Name:  "streams",
				Usage: "Manage live output streams",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List streams",
						Flags:  jsonFlags(),
						Action: r.StudioStreamsList,
					},
					{
						Name:  "start",
						Usage: "Start a stream",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.StudioStreamsStart,
					},
					{
						Name:  "stop",
						Usage: "Stop a stream",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.StudioStreamsStop,
					},
				},
			},
			{
				Name:  "templates",
				Usage: "Browse the template marketplace",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List templates",
						Flags: append(jsonFlags(),
							&cli.StringFlag{
								Name:  "category",
								Usage: "Filter templates by category",
							},
						),
						Action: r.StudioTemplatesList,
					},
					{
						Name:  "like",
						Usage: "Like a template",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.StudioTemplatesLike,
					},
					{
						Name:  "rate",
						Usage: "Rate a template (1-5)",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:     "stars",
								Usage:    "Rating from 1 to 5",
								Required: true,
							},
						},
						Action: r.StudioTemplatesRate,
					},
					{
						Name:  "download",
						Usage: "Download a template document",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "output",
								Aliases: []string{"o"},
								Usage:   "Output file path",
							},
						},
						Action: r.StudioTemplatesDownload,
					},
				},
			},
		},
	}
}

// exportCommand handles bulk farm exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export farm rosters to disk",
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "ids", Max: -1},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every farm",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 5,
			},
		},
		Action: r.ExportRun,
	}
}

// importCommand handles bulk bird imports
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a bird roster from CSV",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "farm",
				Usage:    "Target farm ID",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent import workers",
				Value: 5,
			},
		},
		Action: r.ImportRun,
	}
}

// dumpCommand fetches the full account state
func dumpCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Full account state dump (farms, birds, studio, directory)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save dump to roost_dump.json",
			},
		},
		Action: r.DumpRun,
	}
}

// watchCommand follows a facility's live event channel
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow a facility's live event channel",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "facility"},
		},
		Action: r.WatchRun,
	}
}

// tuiCommand returns the top-level TUI command for interactive console use.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive console",
		Action:  r.TUI,
	}
}
