package db

import "go.uber.org/zap"

// DedupeUsers keys user records by username. A repeated username keeps the
// position of its first occurrence and the values of its last one.
func DedupeUsers(records []UserRecord, logger *zap.Logger) []UserRecord {
	return dedupe(records, func(r UserRecord) string { return r.Username }, UserKeyColumn, logger)
}

// DedupeContainers keys container records by itemid, with the same rules as DedupeUsers
func DedupeContainers(records []ContainerRecord, logger *zap.Logger) []ContainerRecord {
	return dedupe(records, func(r ContainerRecord) string { return r.ItemID }, ContainerKeyColumn, logger)
}

func dedupe[T any](records []T, key func(T) string, column string, logger *zap.Logger) []T {
	positions := make(map[string]int, len(records))
	result := make([]T, 0, len(records))

	for _, record := range records {
		k := key(record)
		if pos, exists := positions[k]; exists {
			logger.Warn("Duplicate primary key, keeping last record",
				zap.String("column", column),
				zap.String("key", k))
			result[pos] = record
			continue
		}
		positions[k] = len(result)
		result = append(result, record)
	}

	return result
}
