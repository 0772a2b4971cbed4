package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"
	"dmed/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func CheckUserExists(c *gin.Context, email string) (bool, *models.User) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return false, nil
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return false, nil
	}
	return true, &user
}

// POST /api/users (admin)
func CreateUser(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	user := models.User{}
	if err := c.Bind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := user.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}

	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "E-mail inválido!", http.StatusBadRequest)
		return
	}

	if !models.IsValidRole(user.Role) {
		RespondError(c, "role inválida", http.StatusBadRequest)
		return
	}

	if exists, _ := CheckUserExists(c, user.Email); exists {
		RespondError(c, "Usuário já existe", http.StatusConflict)
		return
	}

	user.Password = encodePassword(user.Email, user.Password)
	user.Status = models.USER_STATUS_ACTIVE

	profile := user.Profile
	user.Profile = nil

	tx := db.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if profile != nil {
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	user.Profile = profile
	RespondSuccess(c, user)
}

// GET /api/users (admin)
func GetUsers(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var users []models.User
	if err := db.Order("id asc").Find(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	RespondSuccess(c, gin.H{"users": users})
}

// GET /api/users/:id (admin)
func GetUserByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	var profile models.UserProfile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		user.Profile = &profile
	}

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// countOtherAdmins conta admins ativos fora do conjunto "excluded".
func countOtherAdmins(db *gorm.DB, excluded []int64) (int64, error) {
	var count int64
	q := db.Model(&models.User{}).
		Where("role = ? AND status = ?", models.USER_ROLE_ADMIN, models.USER_STATUS_ACTIVE)
	if len(excluded) > 0 {
		q = q.Where("id NOT IN (?)", excluded)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type UpdateRoleRequest struct {
	Role int `json:"role" form:"role"`
}

// PATCH /api/users/:id/role (admin)
// Guarda do "último admin": rebaixar o único admin ativo é rejeitado.
func UpdateUserRole(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidRole(req.Role) {
		RespondError(c, "role inválida", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	if user.IsAdmin() && req.Role != models.USER_ROLE_ADMIN {
		remaining, err := countOtherAdmins(db, []int64{user.ID})
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if remaining == 0 {
			RespondError(c, "não é possível remover o último admin", http.StatusConflict)
			return
		}
	}

	if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Role = req.Role
	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

type BulkRoleRequest struct {
	UserIDs []int64 `json:"user_ids" form:"user_ids"`
	Role    int     `json:"role" form:"role"`
}

// POST /api/users/bulk-role (admin)
// Aplica a mesma role a vários usuários numa transação única.
// Rejeita a operação inteira se ela deixaria o sistema sem nenhum admin ativo.
func BulkUpdateUserRole(c *gin.Context) {
	var req BulkRoleRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.UserIDs) == 0 {
		RespondError(c, "user_ids é obrigatório", http.StatusBadRequest)
		return
	}
	if !models.IsValidRole(req.Role) {
		RespondError(c, "role inválida", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if req.Role != models.USER_ROLE_ADMIN {
		remaining, err := countOtherAdmins(db, req.UserIDs)
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if remaining == 0 {
			RespondError(c, "operação deixaria o sistema sem admins", http.StatusConflict)
			return
		}
	}

	tx := db.Begin()
	result := tx.Model(&models.User{}).
		Where("id IN (?)", req.UserIDs).
		Update("role", req.Role)
	if result.Error != nil {
		tx.Rollback()
		RespondError(c, result.Error.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"updated": result.RowsAffected})
}

type UpdateStatusRequest struct {
	Status int `json:"status" form:"status"`
}

// PATCH /api/users/:id/status (admin) - bloqueia/desbloqueia.
// Bloquear o último admin ativo também é rejeitado.
func UpdateUserStatus(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Status != models.USER_STATUS_ACTIVE && req.Status != models.USER_STATUS_BLOCKED {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	if user.IsAdmin() && req.Status == models.USER_STATUS_BLOCKED {
		remaining, err := countOtherAdmins(db, []int64{user.ID})
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if remaining == 0 {
			RespondError(c, "não é possível bloquear o último admin", http.StatusConflict)
			return
		}
	}

	if err := db.Model(&user).Update("status", req.Status).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Status = req.Status
	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}
