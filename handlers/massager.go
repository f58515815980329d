package handlers

import (
	"net/http"

	"dimple/middleware"
	"dimple/models"
	"dimple/services/massager"
	"dimple/services/rating"

	"github.com/gin-gonic/gin"
)

var MassagerService massager.MassagerService
var RatingService rating.RatingService

// ListMassagers returns massager profiles matching the discovery filters.
func ListMassagers(c *gin.Context) {
	page, limit := pageParams(c)
	filter := models.MassagerFilter{
		Specialty:     c.Query("specialty"),
		Location:      c.Query("location"),
		AvailableOnly: c.Query("available") == "true",
		Page:          page,
		Limit:         limit,
	}

	profiles, total, err := MassagerService.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"massagers": profiles,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetMassager returns one massager profile by account id.
func GetMassager(c *gin.Context) {
	profile, err := MassagerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetAvailability replaces the calling massager's weekly schedule.
func SetAvailability(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	profile, err := MassagerService.SetAvailability(c.Request.Context(), actor, req.WeeklyAvailability)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListMassagerRatings returns the ratings left for a massager.
func ListMassagerRatings(c *gin.Context) {
	page, limit := pageParams(c)
	ratings, total, err := RatingService.ListForMassager(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ratings": ratings,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
