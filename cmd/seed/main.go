package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cleanops/internal/config"
	"cleanops/internal/database"
	"cleanops/internal/domain"
	"cleanops/internal/modules/catalog"
	"cleanops/internal/modules/upload"
	"cleanops/internal/repository"
)

// Seeds a demo dataset: one admin, one manager, two housekeepers, a property
// with an ordered room sequence and photo requirements, and a checklist
// scheduled for today.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db, &upload.Upload{}); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"checklist_photos", "checklist_items", "checklists",
		"room_tasks", "property_rooms", "tasks", "rooms",
		"properties", "uploads", "refresh_tokens", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)

	log.Println("Creating users...")
	admin := mustUser(ctx, userRepo, "admin@cleanops.local", "admin123", "Platform Admin", domain.RoleAdmin)
	manager := mustUser(ctx, userRepo, "manager@cleanops.local", "manager123", "Dana Seitova", domain.RoleManager)
	hk1 := mustUser(ctx, userRepo, "aigerim@cleanops.local", "cleaner123", "Aigerim Nurlanova", domain.RoleHousekeeper)
	mustUser(ctx, userRepo, "marat@cleanops.local", "cleaner123", "Marat Bekov", domain.RoleHousekeeper)
	_ = admin

	svc := catalog.NewService(propertyRepo, roomRepo, taskRepo, userRepo, checklistRepo)

	log.Println("Creating catalog...")
	lat, lng := 43.238949, 76.889709
	property, err := svc.CreateProperty(ctx, manager.ID, catalog.CreatePropertyRequest{
		Name:            "Dostyk Apartments 12B",
		Address:         "Dostyk Ave 12, Almaty",
		Latitude:        &lat,
		Longitude:       &lng,
		GeofenceRadiusM: 150,
	})
	if err != nil {
		log.Fatal("create property:", err)
	}

	roomNames := []struct {
		name          string
		requiresPhoto bool
		photos        int
	}{
		{"Kitchen", true, 2},
		{"Bathroom", true, 3},
		{"Bedroom", false, 0},
		{"Living Room", true, 1},
	}

	taskDefs := []struct {
		title   string
		minutes int
		photo   bool
	}{
		{"Wipe all surfaces", 10, false},
		{"Mop the floor", 15, false},
		{"Take out trash", 5, false},
		{"Restock supplies", 5, true},
	}

	tasks := make([]*domain.Task, 0, len(taskDefs))
	for _, td := range taskDefs {
		t, err := svc.CreateTask(ctx, catalog.CreateTaskRequest{
			Title:            td.title,
			EstimatedMinutes: td.minutes,
			RequiresPhoto:    td.photo,
		})
		if err != nil {
			log.Fatal("create task:", err)
		}
		tasks = append(tasks, t)
	}

	for _, rn := range roomNames {
		room, err := svc.CreateRoom(ctx, catalog.CreateRoomRequest{Name: rn.name})
		if err != nil {
			log.Fatal("create room:", err)
		}
		if _, err := svc.AssignRoom(ctx, property.ID, manager.ID, domain.RoleManager, catalog.AssignRoomRequest{
			RoomID:              room.ID,
			RequiresPhoto:       rn.requiresPhoto,
			PhotosRequiredCount: rn.photos,
		}); err != nil {
			log.Fatal("assign room:", err)
		}
		for i, t := range tasks {
			// Not every room gets every task.
			if rn.name == "Bedroom" && i == len(tasks)-1 {
				continue
			}
			if _, err := svc.AssignTask(ctx, property.ID, room.ID, manager.ID, domain.RoleManager, catalog.AssignTaskRequest{
				TaskID: t.ID,
			}); err != nil {
				log.Fatal("assign task:", err)
			}
		}
	}

	log.Println("Scheduling today's checklist...")
	cl, err := svc.ScheduleChecklist(ctx, manager.ID, domain.RoleManager, catalog.ScheduleChecklistRequest{
		PropertyID:    property.ID,
		HousekeeperID: hk1.ID,
		ScheduledAt:   time.Now().Add(2 * time.Hour),
	})
	if err != nil {
		log.Fatal("schedule checklist:", err)
	}

	log.Printf("Seed complete: property=%d checklist=%d items=%d", property.ID, cl.ID, len(cl.Items))
}

func mustUser(ctx context.Context, repo *repository.UserRepository, email, password, name string, role domain.Role) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatal("create user:", err)
	}
	return u
}
