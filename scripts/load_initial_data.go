package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"halisaha-backend/internal/auth"
	"halisaha-backend/internal/config"
	"halisaha-backend/internal/database"
	"halisaha-backend/internal/database/models"
	"halisaha-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seeded users get stable ids derived from their tag so reruns find them again
var seedNamespace = uuid.MustParse("6f1c1d1e-5a0b-4c52-9a43-5d0c8d6a7e21")

// Simple structures that directly match DB schema
type UserData struct {
	Tag       string   `yaml:"tag"`
	FullName  string   `yaml:"full_name"`
	Roles     []string `yaml:"roles,omitempty"`
	AvatarURL string   `yaml:"avatar_url,omitempty"`
}

type MemberData struct {
	Tag          string `yaml:"tag"`
	Position     string `yaml:"position,omitempty"`
	JerseyNumber *int   `yaml:"jersey_number,omitempty"`
}

type TeamData struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	ManagerTag  string       `yaml:"manager_tag"`
	MaxPlayers  int          `yaml:"max_players"`
	Members     []MemberData `yaml:"members,omitempty"`
}

// SeedFile is the layout of every YAML file under the data directory
type SeedFile struct {
	Users []UserData `yaml:"users"`
	Teams []TeamData `yaml:"teams"`
}

func main() {
	log.Println("Loading initial data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seed, err := loadSeedFiles("scripts/data")
	if err != nil {
		log.Fatalf("Failed to read seed files: %v", err)
	}

	users, err := loadData(context.Background(), db, seed)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	// Development tokens, signed with the configured secret
	if !cfg.IsProduction() {
		printDevTokens(cfg, users)
	}

	log.Println("Initial data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadSeedFiles(dataDir string) (*SeedFile, error) {
	all := &SeedFile{}

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var file SeedFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		all.Users = append(all.Users, file.Users...)
		all.Teams = append(all.Teams, file.Teams...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// loadData creates missing users and teams. Existing rows are left untouched.
func loadData(ctx context.Context, db *gorm.DB, seed *SeedFile) (map[string]*models.User, error) {
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	tx := repository.NewTransactor(db)

	userMap := make(map[string]*models.User)
	userCreated := 0
	for _, userData := range seed.Users {
		user, created, err := createUser(ctx, userRepo, userData)
		if err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.Tag, err)
		}
		userMap[userData.Tag] = user
		if created {
			userCreated++
		}
	}
	log.Printf("Users: %d created, %d total", userCreated, len(seed.Users))

	teamCreated := 0
	for _, teamData := range seed.Teams {
		created, err := createTeam(ctx, db, tx, teamRepo, memberRepo, userRepo, teamData, userMap)
		if err != nil {
			log.Printf("Warning: failed to create team %s: %v", teamData.Name, err)
			continue // Continue with other teams
		}
		if created {
			teamCreated++
		}
	}
	log.Printf("Teams: %d created, %d total", teamCreated, len(seed.Teams))

	return userMap, nil
}

func createUser(ctx context.Context, repo *repository.UserRepository, userData UserData) (*models.User, bool, error) {
	id := uuid.NewSHA1(seedNamespace, []byte(userData.Tag))

	existing, err := repo.GetByID(ctx, id)
	if err == nil {
		return existing, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, fmt.Errorf("failed to query user: %w", err)
	}

	roles := pq.StringArray{}
	for _, r := range userData.Roles {
		if r == string(models.UserRoleTeamManager) || !models.UserRole(r).IsValid() {
			return nil, false, fmt.Errorf("role %q cannot be seeded", r)
		}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		roles = append(roles, string(models.UserRolePlayer))
	}

	user := &models.User{
		BaseModel: models.BaseModel{ID: id},
		FullName:  userData.FullName,
		Tag:       userData.Tag,
		Roles:     roles,
		AvatarURL: userData.AvatarURL,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func createTeam(
	ctx context.Context,
	db *gorm.DB,
	tx *repository.Transactor,
	teams *repository.TeamRepository,
	members *repository.TeamMemberRepository,
	users *repository.UserRepository,
	teamData TeamData,
	userMap map[string]*models.User,
) (bool, error) {
	manager := userMap[teamData.ManagerTag]
	if manager == nil {
		return false, fmt.Errorf("manager %s not found for team %s", teamData.ManagerTag, teamData.Name)
	}

	var existing models.Team
	err := db.WithContext(ctx).Where("name = ? AND manager_id = ?", teamData.Name, manager.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to query team: %w", err)
	}

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		team := &models.Team{
			Name:        teamData.Name,
			Description: teamData.Description,
			ManagerID:   manager.ID,
			MaxPlayers:  teamData.MaxPlayers,
		}
		if err := teams.Create(ctx, team); err != nil {
			return err
		}

		roster := append([]MemberData{{Tag: teamData.ManagerTag}}, teamData.Members...)
		for _, m := range roster {
			user := userMap[m.Tag]
			if user == nil {
				return fmt.Errorf("member %s not found", m.Tag)
			}
			if _, err := members.AddIfAbsent(ctx, &models.TeamMember{
				TeamID:       team.ID,
				UserID:       user.ID,
				Position:     models.PlayerPosition(m.Position),
				JerseyNumber: m.JerseyNumber,
				JoinedAt:     time.Now(),
			}); err != nil {
				return err
			}
		}

		count, err := members.CountByTeam(ctx, team.ID)
		if err != nil {
			return err
		}
		if team.MaxPlayers > 0 && count > int64(team.MaxPlayers) {
			return fmt.Errorf("roster of %d exceeds max_players %d", count, team.MaxPlayers)
		}
		if err := teams.UpdateMemberCount(ctx, team.ID, count); err != nil {
			return err
		}
		return users.AddRole(ctx, manager.ID, models.UserRoleTeamManager)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func printDevTokens(cfg *config.Config, users map[string]*models.User) {
	authService, err := auth.NewAuthService(auth.NewAuthConfig(cfg))
	if err != nil {
		log.Printf("Warning: cannot mint development tokens: %v", err)
		return
	}

	for tag, user := range users {
		token, err := authService.GenerateJWT(user.ID, user.FullName)
		if err != nil {
			log.Printf("Warning: token for %s: %v", tag, err)
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", tag, user.ID, token)
	}
}
