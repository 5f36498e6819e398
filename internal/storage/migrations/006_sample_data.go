package migrations

import "gorm.io/gorm"

// SampleGroupID is the group inserted for development
const SampleGroupID = "660e8400-e29b-41d4-a716-446655440000"

// migration006Up inserts a sample group for testing and development
func migration006Up(db *gorm.DB) error {
	groupSQL := `
        INSERT INTO groups (id, name) VALUES
            ('660e8400-e29b-41d4-a716-446655440000', 'Amigo Secreto da Família')
        ON CONFLICT (id) DO NOTHING
    `
	if err := db.Exec(groupSQL).Error; err != nil {
		return err
	}

	// Ana y Bruno son pareja: no se regalan entre ellos
	participantsSQL := `
        INSERT INTO participants (id, group_id, name, phone, position, blacklist) VALUES
            ('550e8400-e29b-41d4-a716-446655440001', '660e8400-e29b-41d4-a716-446655440000', 'Ana', '+55 11 98765-4321', 0, '{550e8400-e29b-41d4-a716-446655440002}'),
            ('550e8400-e29b-41d4-a716-446655440002', '660e8400-e29b-41d4-a716-446655440000', 'Bruno', '+55 11 91234-5678', 1, '{550e8400-e29b-41d4-a716-446655440001}'),
            ('550e8400-e29b-41d4-a716-446655440003', '660e8400-e29b-41d4-a716-446655440000', 'Carla', '', 2, '{}'),
            ('550e8400-e29b-41d4-a716-446655440004', '660e8400-e29b-41d4-a716-446655440000', 'Diego', '', 3, '{}'),
            ('550e8400-e29b-41d4-a716-446655440005', '660e8400-e29b-41d4-a716-446655440000', 'Elisa', '+55 21 99876-5432', 4, '{}')
        ON CONFLICT (id) DO NOTHING
    `
	return db.Exec(participantsSQL).Error
}

func migration006Down(db *gorm.DB) error {
	return db.Exec("DELETE FROM groups WHERE id = ?", SampleGroupID).Error
}
