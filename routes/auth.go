package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/middlewares"
	"campusevents/models"
)

// POST /register
func (d *Deps) signup(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Email         string `json:"email" binding:"required"`
		Password      string `json:"password" binding:"required"`
		StudentNumber string `json:"studentNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	u := models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		StudentNumber: req.StudentNumber,
		Role:          models.RoleStudent,
	}
	if err := d.Users.Create(c.Request.Context(), &u); err != nil {
		respondError(c, err, "Could not save user.")
		return
	}
	models.RecordActivity(c.Request.Context(), d.Activity, &models.Identity{UserID: u.ID, Role: u.Role}, models.ActionUserCreated, u.ID, "signup")
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful! Please login.", "user": u, "redirect": "/login"})
}

// POST /login
func (d *Deps) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	ctx := c.Request.Context()
	user, err := d.Users.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password."})
			return
		}
		respondError(c, err, "Could not authenticate user.")
		return
	}

	sid, err := d.Sessions.Create(ctx, user.ID, d.Tokens.TTL())
	if err != nil {
		respondError(c, err, "Could not authenticate user.")
		return
	}
	token, err := d.Tokens.GenerateToken(user.ID, user.Role.String(), sid)
	if err != nil {
		respondError(c, err, "Could not authenticate user.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, token, int(d.Tokens.TTL().Seconds()), "/", "", d.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Welcome back, " + user.Name + "!",
		"token":    token,
		"user":     user,
		"redirect": user.Role.DashboardPath(),
	})
}

// POST /logout
func (d *Deps) logout(c *gin.Context) {
	id := middlewares.CurrentIdentity(c)
	if err := d.Sessions.Revoke(c.Request.Context(), id.UserID, middlewares.CurrentSessionID(c)); err != nil {
		respondError(c, err, "Could not log out.")
		return
	}
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", d.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out.", "redirect": "/"})
}

// GET /dashboard
func (d *Deps) dashboard(c *gin.Context) {
	id := middlewares.CurrentIdentity(c)
	c.JSON(http.StatusOK, gin.H{"role": id.Role, "redirect": id.Role.DashboardPath()})
}
