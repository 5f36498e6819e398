package migrations

import "gorm.io/gorm"

// migration002Up creates the core tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops the core tables
func migration002Down(db *gorm.DB) error {
	for _, table := range []string{"draw_assignments", "participants", "groups"} {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}
