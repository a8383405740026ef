package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/middlewares"
	"campusevents/models"
)

/* -------------------- Dashboard -------------------- */

// GET /admin/dashboard
func (d *Deps) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts := map[string]func() (int, error){
		"users":         func() (int, error) { return d.Users.Count(ctx) },
		"societies":     func() (int, error) { return d.Societies.Count(ctx) },
		"events":        func() (int, error) { return d.Events.Count(ctx) },
		"registrations": func() (int, error) { return d.Regs.Count(ctx) },
	}
	stats := gin.H{}
	for name, fn := range counts {
		n, err := fn()
		if err != nil {
			respondError(c, err, "Could not load dashboard. Try again later.")
			return
		}
		stats[name] = n
	}
	recent, err := d.Events.Recent(ctx, 5)
	if err != nil {
		respondError(c, err, "Could not load dashboard. Try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "recentEvents": views(recent)})
}

/* -------------------- Users -------------------- */

// userAdmin serves the CRUD endpoints for one role.
type userAdmin struct {
	d    *Deps
	role models.Role
	path string
}

type userRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	StudentNumber string `json:"studentNumber"`
}

func (h userAdmin) list(c *gin.Context) {
	users, err := h.d.Users.ListByRole(c.Request.Context(), h.role)
	if err != nil {
		respondError(c, err, "Could not fetch users. Try again later.")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h userAdmin) create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	u := models.User{Name: req.Name, Email: req.Email, Password: req.Password, Role: h.role}
	if h.role == models.RoleStudent {
		u.StudentNumber = req.StudentNumber
	}
	if err := h.d.Users.Create(c.Request.Context(), &u); err != nil {
		respondError(c, err, "Could not save user.")
		return
	}
	h.d.record(c, models.ActionUserCreated, u.ID, h.role.String())
	c.JSON(http.StatusCreated, gin.H{"message": h.role.String() + " added successfully!", "user": u})
}

// target loads the user addressed by :id and checks it has the handler's role.
func (h userAdmin) target(c *gin.Context) (models.User, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return models.User{}, false
	}
	u, err := h.d.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not fetch user. Try again later.")
		return models.User{}, false
	}
	if u.Role != h.role {
		respondError(c, models.Validationf("user %d is not a %s", id, h.role), "")
		return models.User{}, false
	}
	return u, true
}

func (h userAdmin) update(c *gin.Context) {
	u, ok := h.target(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if h.role == models.RoleStudent && req.StudentNumber != "" {
		u.StudentNumber = req.StudentNumber
	}
	u.Password = req.Password

	if err := h.d.Users.Update(c.Request.Context(), &u); err != nil {
		respondError(c, err, "Could not update user.")
		return
	}
	h.d.record(c, models.ActionUserUpdated, u.ID, h.role.String())
	c.JSON(http.StatusOK, gin.H{"message": h.role.String() + " updated successfully!", "user": u})
}

func (h userAdmin) delete(c *gin.Context) {
	u, ok := h.target(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	invoices, err := h.d.Users.Delete(ctx, u.ID)
	if err != nil {
		respondError(c, err, "Could not delete user.")
		return
	}
	h.d.Engine.DiscardInvoices(ctx, invoices)
	if err := h.d.Sessions.PurgeUser(ctx, u.ID); err != nil {
		slog.ErrorContext(ctx, "purge sessions failed", "userId", u.ID, "err", err)
	}
	h.d.record(c, models.ActionUserDeleted, u.ID, h.role.String())
	c.JSON(http.StatusOK, gin.H{"message": h.role.String() + " deleted successfully!"})
}

/* -------------------- Societies -------------------- */

type societyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HeadID      int64  `json:"societyHeadId"`
}

// GET /admin/societies
func (d *Deps) listSocieties(c *gin.Context) {
	societies, err := d.Societies.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not fetch societies. Try again later.")
		return
	}
	c.JSON(http.StatusOK, societies)
}

// POST /admin/societies
func (d *Deps) createSociety(c *gin.Context) {
	var req societyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	s := models.Society{Name: req.Name, Description: req.Description, HeadID: req.HeadID}
	if err := d.Societies.Create(c.Request.Context(), &s); err != nil {
		respondError(c, err, "Could not create society.")
		return
	}
	d.record(c, models.ActionSocietyCreated, s.ID, s.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "Society created successfully!", "society": s})
}

// PUT /admin/societies/:id
func (d *Deps) updateSociety(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	s, err := d.Societies.GetByID(ctx, id)
	if err != nil {
		respondError(c, err, "Could not fetch society. Try again later.")
		return
	}
	var req societyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if req.Name != "" {
		s.Name = req.Name
	}
	s.Description = req.Description
	if req.HeadID != 0 {
		s.HeadID = req.HeadID
	}
	if err := d.Societies.Update(ctx, &s); err != nil {
		respondError(c, err, "Could not update society.")
		return
	}
	d.record(c, models.ActionSocietyUpdated, s.ID, s.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Society updated successfully!", "society": s})
}

// DELETE /admin/societies/:id
func (d *Deps) deleteSociety(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := d.Societies.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete society.")
		return
	}
	d.record(c, models.ActionSocietyDeleted, id, "")
	c.JSON(http.StatusOK, gin.H{"message": "Society deleted successfully!"})
}

/* -------------------- Events -------------------- */

type eventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	IsPaid      bool      `json:"isPaid"`
	Cost        float64   `json:"cost"`
	SocietyID   *int64    `json:"societyId"`
}

func (r eventRequest) apply(e *models.Event) {
	e.Title = r.Title
	e.Description = r.Description
	e.EventDate = r.EventDate
	e.Location = r.Location
	e.Capacity = r.Capacity
	e.IsPaid = r.IsPaid
	e.Cost = r.Cost
}

func bindEvent(c *gin.Context) (eventRequest, bool) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return eventRequest{}, false
	}
	return req, true
}

// societyRef checks that an admin-chosen society exists; nil means standalone.
func (d *Deps) societyRef(c *gin.Context, id *int64) (*int64, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	if _, err := d.Societies.GetByID(c.Request.Context(), *id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.Validationf("society %d does not exist", *id)
		}
		return nil, err
	}
	return id, nil
}

// GET /admin/events
func (d *Deps) adminListEvents(c *gin.Context) {
	d.getEvents(c)
}

// POST /admin/events
func (d *Deps) adminCreateEvent(c *gin.Context) {
	req, ok := bindEvent(c)
	if !ok {
		return
	}
	society, err := d.societyRef(c, req.SocietyID)
	if err != nil {
		respondError(c, err, "Could not create event. Try again later.")
		return
	}
	ev := models.Event{CreatedBy: middlewares.CurrentIdentity(c).UserID, SocietyID: society}
	req.apply(&ev)
	d.createEvent(c, &ev)
}

// PUT /admin/events/:id
func (d *Deps) adminUpdateEvent(c *gin.Context) {
	ev, ok := d.ownedEvent(c)
	if !ok {
		return
	}
	req, ok := bindEvent(c)
	if !ok {
		return
	}
	society, err := d.societyRef(c, req.SocietyID)
	if err != nil {
		respondError(c, err, "Could not update event. Try again later.")
		return
	}
	req.apply(&ev)
	ev.SocietyID = society
	d.updateEvent(c, &ev)
}

func (d *Deps) createEvent(c *gin.Context, ev *models.Event) {
	if err := d.Events.Create(c.Request.Context(), ev); err != nil {
		respondError(c, err, "Could not create event. Try again later.")
		return
	}
	d.record(c, models.ActionEventCreated, ev.ID, ev.Title)
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully!", "event": ev.View()})
}

func (d *Deps) updateEvent(c *gin.Context, ev *models.Event) {
	if err := d.Events.Update(c.Request.Context(), ev); err != nil {
		respondError(c, err, "Could not update event. Try again later.")
		return
	}
	d.record(c, models.ActionEventUpdated, ev.ID, ev.Title)
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully!", "event": ev.View()})
}

// DELETE /admin/events/:id, DELETE /organizer/events/:id
func (d *Deps) deleteEvent(c *gin.Context) {
	ev, ok := d.ownedEvent(c)
	if !ok {
		return
	}
	invoices, err := d.Events.Delete(c.Request.Context(), ev.ID)
	if err != nil {
		respondError(c, err, "Could not delete the event.")
		return
	}
	d.Engine.DiscardInvoices(c.Request.Context(), invoices)
	d.record(c, models.ActionEventDeleted, ev.ID, ev.Title)
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully!"})
}

/* -------------------- Activity -------------------- */

// GET /admin/activity
func (d *Deps) listActivity(c *gin.Context) {
	if d.Activity == nil {
		c.JSON(http.StatusOK, []models.Activity{})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := d.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Could not fetch activity. Try again later.")
		return
	}
	c.JSON(http.StatusOK, entries)
}
