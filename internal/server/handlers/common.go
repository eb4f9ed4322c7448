package handlers

import "github.com/google/uuid"

func parseUserID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
