package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogem/usermgmt/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// userFormData is the view model of the add/edit form
type userFormData struct {
	Action string
	Cancel string
	Form   *models.UserForm
	Errors models.ValidationErrors
}

// userListData is the view model of the user list
type userListData struct {
	Filter string
	Users  []models.UserListItem
}

// userViewData is the view model of the user details page
type userViewData struct {
	User models.UserListItem
	Logs []models.LogListItem
}

// recentUserLogs is how many entries the details page shows
const recentUserLogs = 10

// UserController handles user management requests. Every successful view,
// create, update or delete writes exactly one audit log entry.
type UserController struct {
	*base
}

// NewUserController creates a new user controller
func NewUserController(b *base) *UserController {
	return &UserController{base: b}
}

// Index handles GET /users, honoring ?filter=active|inactive
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("filter") {
	case "active":
		c.list(w, r, "active")
	case "inactive":
		c.list(w, r, "inactive")
	default:
		c.list(w, r, "")
	}
}

// Active handles GET /users/active
func (c *UserController) Active(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, "active")
}

// Inactive handles GET /users/inactive
func (c *UserController) Inactive(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, "inactive")
}

func (c *UserController) list(w http.ResponseWriter, r *http.Request, filter string) {
	var (
		users []models.User
		err   error
		title = "Users"
	)

	switch filter {
	case "active":
		users, err = c.services.Users.FilterByActive(r.Context(), true)
		title = "Active users"
	case "inactive":
		users, err = c.services.Users.FilterByActive(r.Context(), false)
		title = "Inactive users"
	default:
		users, err = c.services.Users.GetAll(r.Context())
	}
	if err != nil {
		c.fail(w, r, err, "Users")
		return
	}

	c.render(w, r, http.StatusOK, "users", title, "users", userListData{
		Filter: filter,
		Users:  models.NewUserListItems(users),
	})
}

// New handles GET /users/add
func (c *UserController) New(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "user_form", "Add user", "users", userFormData{
		Action: "/users/add",
		Cancel: "/users",
		Form:   &models.UserForm{IsActive: true},
	})
}

// Create handles POST /users/add
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseUserForm(r)
	if err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	if errs := validateUserForm(form); errs.HasErrors() {
		c.render(w, r, http.StatusBadRequest, "user_form", "Add user", "users", userFormData{
			Action: "/users/add",
			Cancel: "/users",
			Form:   form,
			Errors: errs,
		})
		return
	}

	user := &models.User{}
	form.Apply(user)
	if err := c.services.Users.Add(r.Context(), user); err != nil {
		c.fail(w, r, err, "User")
		return
	}

	if !c.audit(w, r, models.ActionCreated, fmt.Sprintf("User created: %s %s", user.Forename, user.Surname), user.ID) {
		return
	}

	setFlash(r, "success", "User created successfully.")
	http.Redirect(w, r, fmt.Sprintf("/users/%d/view", user.ID), http.StatusSeeOther)
}

// View handles GET /users/{id}/view
func (c *UserController) View(w http.ResponseWriter, r *http.Request) {
	user, ok := c.loadUser(w, r)
	if !ok {
		return
	}

	if !c.audit(w, r, models.ActionViewed, fmt.Sprintf("Viewed user %s %s", user.Forename, user.Surname), user.ID) {
		return
	}

	logs, err := c.services.Logs.GetByUser(r.Context(), user.ID, 0, recentUserLogs)
	if err != nil {
		c.fail(w, r, err, "Log entries")
		return
	}

	c.render(w, r, http.StatusOK, "user_view", user.FullName(), "users", userViewData{
		User: models.NewUserListItem(*user),
		Logs: models.NewLogListItems(logs),
	})
}

// Edit handles GET /users/{id}/edit
func (c *UserController) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := c.loadUser(w, r)
	if !ok {
		return
	}

	c.render(w, r, http.StatusOK, "user_form", "Edit "+user.FullName(), "users", userFormData{
		Action: fmt.Sprintf("/users/%d/edit", user.ID),
		Cancel: fmt.Sprintf("/users/%d/view", user.ID),
		Form:   models.NewUserForm(user),
	})
}

// Update handles POST /users/{id}/edit
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := c.loadUser(w, r)
	if !ok {
		return
	}

	form, err := parseUserForm(r)
	if err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	if errs := validateUserForm(form); errs.HasErrors() {
		c.render(w, r, http.StatusBadRequest, "user_form", "Edit "+user.FullName(), "users", userFormData{
			Action: fmt.Sprintf("/users/%d/edit", user.ID),
			Cancel: fmt.Sprintf("/users/%d/view", user.ID),
			Form:   form,
			Errors: errs,
		})
		return
	}

	form.Apply(user)
	if err := c.services.Users.Update(r.Context(), user); err != nil {
		c.fail(w, r, err, "User")
		return
	}

	if !c.audit(w, r, models.ActionUpdated, fmt.Sprintf("User updated: %s %s", user.Forename, user.Surname), user.ID) {
		return
	}

	setFlash(r, "success", "User updated successfully.")
	http.Redirect(w, r, fmt.Sprintf("/users/%d/view", user.ID), http.StatusSeeOther)
}

// ConfirmDelete handles GET /users/{id}/delete
func (c *UserController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := c.loadUser(w, r)
	if !ok {
		return
	}

	c.render(w, r, http.StatusOK, "user_delete", "Delete user", "users", models.NewUserListItem(*user))
}

// Delete handles POST /users/{id}/delete
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := c.loadUser(w, r)
	if !ok {
		return
	}

	removed, err := c.services.Users.Delete(r.Context(), user.ID)
	if err != nil {
		c.fail(w, r, err, "User")
		return
	}
	if !removed {
		c.notFound(w, r, "User")
		return
	}

	if !c.audit(w, r, models.ActionDeleted, fmt.Sprintf("User deleted: %s %s", user.Forename, user.Surname), user.ID) {
		return
	}

	setFlash(r, "success", "User deleted successfully.")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// loadUser resolves {id}; it writes a 404 and returns false when the user is absent
func (c *UserController) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		c.notFound(w, r, "User")
		return nil, false
	}

	user, err := c.services.Users.GetByID(r.Context(), id)
	if err != nil {
		c.fail(w, r, err, "User")
		return nil, false
	}
	return user, true
}

// audit writes the log entry for a completed user operation
func (c *UserController) audit(w http.ResponseWriter, r *http.Request, action, description string, userID int64) bool {
	if _, err := c.services.Logs.Log(r.Context(), action, description, &userID); err != nil {
		c.fail(w, r, err, "Log entry")
		return false
	}
	return true
}

// parseUserForm reads the posted fields. The hidden is_active=off field is
// overridden by the checkbox when it is ticked, so the last value wins.
func parseUserForm(r *http.Request) (*models.UserForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	activeValues := r.Form["is_active"]
	isActive := len(activeValues) > 0 && activeValues[len(activeValues)-1] == "on"

	return &models.UserForm{
		Forename:    strings.TrimSpace(r.FormValue("forename")),
		Surname:     strings.TrimSpace(r.FormValue("surname")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		IsActive:    isActive,
		DateOfBirth: strings.TrimSpace(r.FormValue("date_of_birth")),
	}, nil
}

// validateUserForm runs the struct tags and maps failures to field messages
func validateUserForm(form *models.UserForm) models.ValidationErrors {
	errs := models.ValidationErrors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_form"] = err.Error()
		return errs
	}

	for _, fe := range fieldErrs {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "datetime":
		return "Use the format YYYY-MM-DD."
	default:
		return "Invalid value."
	}
}
