package routes

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/access"
	"campusevents/export"
	"campusevents/middlewares"
	"campusevents/models"
	"campusevents/registration"
)

/* -------------------- Public -------------------- */

// GET /events
func (d *Deps) getEvents(c *gin.Context) {
	events, err := d.Events.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not fetch events. Try again later.")
		return
	}
	c.JSON(http.StatusOK, views(events))
}

// GET /events/:id
func (d *Deps) getEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	event, err := d.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not fetch event. Try again later.")
		return
	}
	c.JSON(http.StatusOK, event.View())
}

/* -------------------- Student -------------------- */

// GET /student/dashboard
func (d *Deps) studentDashboard(c *gin.Context) {
	id := middlewares.CurrentIdentity(c)
	regs, err := d.Regs.ListByStudent(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err, "Could not fetch registrations. Try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

// GET /student/events
func (d *Deps) studentEvents(c *gin.Context) {
	ctx := c.Request.Context()
	id := middlewares.CurrentIdentity(c)

	upcoming, err := d.Events.ListUpcoming(ctx, time.Now())
	if err != nil {
		respondError(c, err, "Could not fetch events. Try again later.")
		return
	}
	mine, err := d.Regs.ListByStudent(ctx, id.UserID)
	if err != nil {
		respondError(c, err, "Could not fetch registrations. Try again later.")
		return
	}
	joined := make(map[int64]bool, len(mine))
	for _, r := range mine {
		joined[r.EventID] = true
	}

	registered, available := []models.EventView{}, []models.EventView{}
	for _, e := range upcoming {
		if joined[e.ID] {
			registered = append(registered, e.View())
		} else {
			available = append(available, e.View())
		}
	}
	c.JSON(http.StatusOK, gin.H{"registered": registered, "available": available})
}

// POST /event/:id/register (multipart form)
func (d *Deps) registerForEvent(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	in := registration.RegisterInput{
		EventID:       eventID,
		Phone:         c.PostForm("phone_number"),
		PaymentMethod: c.PostForm("payment_method"),
	}
	if fh, err := c.FormFile("invoice"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read invoice upload."})
			return
		}
		defer f.Close()
		in.Invoice = &registration.Upload{Filename: fh.Filename, Content: f}
	}

	reg, err := d.Engine.Register(c.Request.Context(), middlewares.CurrentIdentity(c), in)
	if err != nil {
		respondError(c, err, "Could not register for event. Try again later.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Successfully registered!", "registration": reg, "redirect": "/student/dashboard"})
}

// POST /event/:id/unregister
func (d *Deps) unregisterFromEvent(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := d.Engine.Unregister(c.Request.Context(), middlewares.CurrentIdentity(c), eventID); err != nil {
		respondError(c, err, "Could not cancel registration.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully unregistered from event.", "redirect": "/student/dashboard"})
}

/* --------------- Staff: rosters ------------------ */

// ownedEvent loads the event and checks the caller may manage it.
func (d *Deps) ownedEvent(c *gin.Context) (models.Event, bool) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return models.Event{}, false
	}
	ev, err := d.Events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "Could not fetch the event. Try again later.")
		return models.Event{}, false
	}
	if err := access.AuthorizeOwner(middlewares.CurrentIdentity(c), ev.CreatedBy); err != nil {
		respondError(c, err, "")
		return models.Event{}, false
	}
	return ev, true
}

// GET /event/:id/registrations
func (d *Deps) listRegistrations(c *gin.Context) {
	ev, ok := d.ownedEvent(c)
	if !ok {
		return
	}
	roster, err := d.Regs.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		respondError(c, err, "Could not fetch registrations. Try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev.View(), "registrations": roster})
}

// GET /event/:id/export/:format
func (d *Deps) exportRegistrations(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	ev, ok := d.ownedEvent(c)
	if !ok {
		return
	}
	roster, err := d.Regs.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		respondError(c, err, "Could not fetch registrations. Try again later.")
		return
	}

	var buf bytes.Buffer
	if err := export.Render(&buf, format, ev, roster, time.Now()); err != nil {
		respondError(c, err, "Could not export registrations.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(ev.ID)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
