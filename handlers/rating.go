package handlers

import (
	"net/http"

	"dimple/middleware"
	"dimple/models"

	"github.com/gin-gonic/gin"
)

// CreateRating records a client's rating for a completed booking.
func CreateRating(c *gin.Context) {
	var req models.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	created, err := RatingService.Create(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
