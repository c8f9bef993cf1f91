package database

import (
	"fmt"
	"log"

	"course-backend/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	log.Println("🔄 Starting database migration...")

	// Сначала курсы, потом студенты, которые на них ссылаются
	tables := []interface{}{
		&models.Course{},
		&models.Student{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			log.Printf("❌ Error migrating table %T: %v", table, err)
			return err
		}
		log.Printf("✅ Created/Updated table for: %T", table)
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	log.Println("✅ Database migration completed successfully!")
	return nil
}

func createIndexes(db *gorm.DB) error {
	log.Println("📊 Creating indexes...")

	statements := []string{
		// не больше одного активного курса
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_courses_single_active ON courses (active) WHERE active",
		"CREATE INDEX IF NOT EXISTS idx_students_course_active ON students (course_id, active)",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	log.Println("✅ Indexes created successfully!")
	return nil
}
