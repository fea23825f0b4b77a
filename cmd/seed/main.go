package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"studymate/internal/config"
	"studymate/internal/database"
	"studymate/internal/domain"
	"studymate/internal/logger"
	"studymate/internal/repository"
	"studymate/internal/repository/models"
	"studymate/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Seed data for local development: one student, a small course catalog, and
// the capstone project catalog used by the recommendation engine.

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Connected to Oracle database")

	if err := seedStudent(ctx, db); err != nil {
		log.Fatal("Failed to seed student", zap.Error(err))
	}
	if err := seedCourses(ctx, db); err != nil {
		log.Fatal("Failed to seed courses", zap.Error(err))
	}
	if err := seedFYPCatalog(ctx, db); err != nil {
		log.Fatal("Failed to seed capstone catalog", zap.Error(err))
	}
	log.Info("Seeding complete")
}

func seedStudent(ctx context.Context, db *sqlx.DB) error {
	student := models.Student{
		ID:              util.NewULID(),
		RollNumber:      "21K-0001",
		Name:            "Demo Student",
		UniName:         "Demo University",
		CurrentSemester: 7,
		Interests:       models.StringSlice{"AI", "Web Development"},
		WeakSubjects:    models.StringSlice{"Operating Systems"},
		StudyPace:       domain.PaceModerate,
		LearningStyle:   domain.StylePractice,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	query := `INSERT INTO students (id, roll_number, name, uni_name, current_semester,
		interests, weak_subjects, study_pace, learning_style, created_at, updated_at)
		VALUES (:ID, :ROLL_NUMBER, :NAME, :UNI_NAME, :CURRENT_SEMESTER,
		:INTERESTS, :WEAK_SUBJECTS, :STUDY_PACE, :LEARNING_STYLE, :CREATED_AT, :UPDATED_AT)`
	_, err := db.NamedExecContext(ctx, query, student)
	if err != nil {
		return err
	}
	logger.Get().Info("Seeded student", zap.String("id", student.ID), zap.String("roll", student.RollNumber))
	return nil
}

func seedCourses(ctx context.Context, db *sqlx.DB) error {
	courses := []struct {
		name, code string
		semester   int
		topics     models.StringSlice
	}{
		{"Algorithms 101", "CS-301", 5, models.StringSlice{"Sorting", "Graph Traversal", "Dynamic Programming"}},
		{"Database Systems", "CS-401", 6, models.StringSlice{"Relational Model", "SQL", "Indexing", "Transactions"}},
		{"Machine Learning", "CS-501", 7, models.StringSlice{"Regression", "Classification", "Neural Networks"}},
		{"Web Engineering", "CS-441", 7, models.StringSlice{"HTTP", "REST APIs", "Frontend Basics"}},
	}
	query := `INSERT INTO courses (id, name, code, semester, topics, created_at)
		VALUES (:ID, :NAME, :CODE, :SEMESTER, :TOPICS, :CREATED_AT)`
	for _, c := range courses {
		row := models.Course{
			ID:        util.NewULID(),
			Name:      c.name,
			Code:      c.code,
			Semester:  c.semester,
			Topics:    c.topics,
			CreatedAt: time.Now(),
		}
		if _, err := db.NamedExecContext(ctx, query, row); err != nil {
			return err
		}
		logger.Get().Info("Seeded course", zap.String("id", row.ID), zap.String("name", row.Name))
	}
	return nil
}

func seedFYPCatalog(ctx context.Context, db *sqlx.DB) error {
	repo := repository.NewSQLXFYPRepository(db)
	catalog := []*domain.FYPCandidate{
		{
			Title:          "Smart Campus Assistant",
			Description:    "A chatbot that answers campus queries using a local language model.",
			Category:       "AI",
			Complexity:     "Medium",
			RequiredSkills: []string{"Machine Learning", "Web"},
			Trending:       true,
		},
		{
			Title:          "Query Performance Visualizer",
			Description:    "Visualizes database execution plans and suggests indexes.",
			Category:       "Databases",
			Complexity:     "Medium",
			RequiredSkills: []string{"Database", "Algorithms"},
			Trending:       false,
		},
		{
			Title:          "Peer Learning Marketplace",
			Description:    "A web platform matching students for study groups and tutoring.",
			Category:       "Web",
			Complexity:     "Easy",
			RequiredSkills: []string{"Web Engineering", "Database"},
			Trending:       true,
		},
		{
			Title:          "Network Anomaly Detector",
			Description:    "Flags unusual campus network traffic with statistical baselines.",
			Category:       "Network",
			Complexity:     "Hard",
			RequiredSkills: []string{"Machine Learning", "Networks"},
			Trending:       false,
		},
	}
	for _, candidate := range catalog {
		candidate.ID = util.NewULID()
		if err := repo.Insert(ctx, candidate); err != nil {
			return err
		}
		logger.Get().Info("Seeded capstone project", zap.String("id", candidate.ID), zap.String("title", candidate.Title))
	}
	return nil
}
