package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/middlewares"
	"campusevents/models"
)

// headedSociety returns the society the caller heads, or nil.
func (d *Deps) headedSociety(c *gin.Context, userID int64) (*models.Society, error) {
	s, err := d.Societies.GetByHead(c.Request.Context(), userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GET /organizer/dashboard
func (d *Deps) organizerDashboard(c *gin.Context) {
	id := middlewares.CurrentIdentity(c)
	society, err := d.headedSociety(c, id.UserID)
	if err != nil {
		respondError(c, err, "Could not load dashboard. Try again later.")
		return
	}
	events, err := d.Events.ListByCreator(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err, "Could not load dashboard. Try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"society": society, "events": views(events)})
}

// GET /organizer/events
func (d *Deps) organizerListEvents(c *gin.Context) {
	events, err := d.Events.ListByCreator(c.Request.Context(), middlewares.CurrentIdentity(c).UserID)
	if err != nil {
		respondError(c, err, "Could not fetch events. Try again later.")
		return
	}
	c.JSON(http.StatusOK, views(events))
}

// POST /organizer/events links the event to the caller's society, if any.
func (d *Deps) organizerCreateEvent(c *gin.Context) {
	req, ok := bindEvent(c)
	if !ok {
		return
	}
	id := middlewares.CurrentIdentity(c)
	society, err := d.headedSociety(c, id.UserID)
	if err != nil {
		respondError(c, err, "Could not create event. Try again later.")
		return
	}
	ev := models.Event{CreatedBy: id.UserID}
	if society != nil {
		ev.SocietyID = &society.ID
	}
	req.apply(&ev)
	d.createEvent(c, &ev)
}

// PUT /organizer/events/:id keeps the event's society.
func (d *Deps) organizerUpdateEvent(c *gin.Context) {
	ev, ok := d.ownedEvent(c)
	if !ok {
		return
	}
	req, ok := bindEvent(c)
	if !ok {
		return
	}
	req.apply(&ev)
	d.updateEvent(c, &ev)
}
