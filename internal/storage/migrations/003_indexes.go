package migrations

import "gorm.io/gorm"

// migration003Up creates lookup indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_groups_created_at ON groups(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_groups_updated_at ON groups(updated_at)",

		"CREATE INDEX IF NOT EXISTS idx_participants_group ON participants(group_id, position)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_group_name ON participants(group_id, lower(name))",
		"CREATE INDEX IF NOT EXISTS idx_participants_blacklist ON participants USING GIN (blacklist)",

		"CREATE INDEX IF NOT EXISTS idx_draw_assignments_group ON draw_assignments(group_id)",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}
	return nil
}

func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_groups_created_at",
		"idx_groups_updated_at",
		"idx_participants_group",
		"idx_participants_group_name",
		"idx_participants_blacklist",
		"idx_draw_assignments_group",
	}

	for _, idx := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + idx).Error; err != nil {
			return err
		}
	}
	return nil
}
