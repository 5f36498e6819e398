package migrations

import "gorm.io/gorm"

// migration005Up creates the overview view used for monitoring
func migration005Up(db *gorm.DB) error {
	return db.Exec(`
        CREATE VIEW group_draw_overview AS
        SELECT
            g.id AS group_id,
            g.name AS group_name,
            COUNT(DISTINCT p.id) AS participant_count,
            COUNT(DISTINCT da.id) AS assignment_count,
            COUNT(DISTINCT p.id) FILTER (WHERE cardinality(p.blacklist) > 0) AS participants_with_exclusions,
            g.draw_mode,
            g.coverage,
            g.drawn_at,
            g.updated_at
        FROM groups g
        LEFT JOIN participants p ON p.group_id = g.id
        LEFT JOIN draw_assignments da ON da.group_id = g.id
        GROUP BY g.id, g.name, g.draw_mode, g.coverage, g.drawn_at, g.updated_at`).Error
}

func migration005Down(db *gorm.DB) error {
	return db.Exec("DROP VIEW IF EXISTS group_draw_overview").Error
}
