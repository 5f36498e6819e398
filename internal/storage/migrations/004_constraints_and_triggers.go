package migrations

import "gorm.io/gorm"

// migration004Up adds the draw integrity constraints and the blacklist trigger
func migration004Up(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE groups
            ADD CONSTRAINT chk_groups_coverage CHECK (coverage >= 0 AND coverage <= 1)`,

		`ALTER TABLE draw_assignments
            ADD CONSTRAINT chk_draw_assignments_not_self CHECK (giver_id <> receiver_id)`,
		`ALTER TABLE draw_assignments
            ADD CONSTRAINT uq_draw_assignments_giver UNIQUE (group_id, giver_id)`,
		`ALTER TABLE draw_assignments
            ADD CONSTRAINT uq_draw_assignments_receiver UNIQUE (group_id, receiver_id)`,
		`ALTER TABLE draw_assignments
            ADD CONSTRAINT fk_draw_assignments_giver FOREIGN KEY (giver_id) REFERENCES participants(id) ON DELETE CASCADE`,
		`ALTER TABLE draw_assignments
            ADD CONSTRAINT fk_draw_assignments_receiver FOREIGN KEY (receiver_id) REFERENCES participants(id) ON DELETE CASCADE`,

		`CREATE OR REPLACE FUNCTION forbid_blacklisted_assignment()
        RETURNS TRIGGER AS $$
        BEGIN
            IF EXISTS (
                SELECT 1 FROM participants
                WHERE id = NEW.giver_id AND NEW.receiver_id::text = ANY(blacklist)
            ) THEN
                RAISE EXCEPTION 'Participant % has excluded %', NEW.giver_id, NEW.receiver_id;
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE TRIGGER trg_draw_assignments_blacklist
            BEFORE INSERT OR UPDATE ON draw_assignments
            FOR EACH ROW EXECUTE FUNCTION forbid_blacklisted_assignment()`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func migration004Down(db *gorm.DB) error {
	statements := []string{
		"DROP TRIGGER IF EXISTS trg_draw_assignments_blacklist ON draw_assignments",
		"DROP FUNCTION IF EXISTS forbid_blacklisted_assignment()",
		"ALTER TABLE draw_assignments DROP CONSTRAINT IF EXISTS fk_draw_assignments_receiver",
		"ALTER TABLE draw_assignments DROP CONSTRAINT IF EXISTS fk_draw_assignments_giver",
		"ALTER TABLE draw_assignments DROP CONSTRAINT IF EXISTS uq_draw_assignments_receiver",
		"ALTER TABLE draw_assignments DROP CONSTRAINT IF EXISTS uq_draw_assignments_giver",
		"ALTER TABLE draw_assignments DROP CONSTRAINT IF EXISTS chk_draw_assignments_not_self",
		"ALTER TABLE groups DROP CONSTRAINT IF EXISTS chk_groups_coverage",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
