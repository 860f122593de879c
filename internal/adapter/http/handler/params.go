package handler

import (
	"strconv"

	"farming-engine/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func userIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ErrInvalidUserID()
	}
	return id, nil
}

func limitQuery(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperror.Validation("limit must be a non-negative integer")
	}
	return limit, nil
}
