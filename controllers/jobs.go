package controllers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	dbpkg "dmed/db"
	"dmed/notifier"
	"dmed/workers"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// Jobs (endpoints de agendamento)
// ------------------------------

// jobSecret devolve o segredo esperado no header Authorization dos
// endpoints de job. Sem segredo configurado os endpoints ficam fechados.
func jobSecret() string {
	return os.Getenv("JOB_SECRET")
}

func checkJobAuth(c *gin.Context) bool {
	secret := jobSecret()
	if secret == "" {
		RespondError(c, "jobs desabilitados (JOB_SECRET não configurado)", http.StatusServiceUnavailable)
		return false
	}

	auth := c.GetHeader("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth {
		RespondError(c, "autorização no formato Bearer é obrigatória", http.StatusUnauthorized)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		RespondError(c, "segredo de job inválido", http.StatusUnauthorized)
		return false
	}
	return true
}

// POST /api/jobs/sla-scan
// Dispara manualmente a varredura de SLA (mesma rotina do cron interno).
// Protegido por Bearer <JOB_SECRET>, não por JWT de usuário.
func RunSLAScan(c *gin.Context) {
	if !checkJobAuth(c) {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	dispatcher := notifier.FromContext(c)
	if dispatcher == nil {
		RespondError(c, "notificador não configurado no contexto", http.StatusInternalServerError)
		return
	}

	result, err := workers.ScanSLA(requestCtx(c), db, dispatcher)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, result)
}
