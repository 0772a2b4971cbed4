package notifier

import (
	"context"
	"testing"
	"time"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.LogMode(false)
	dbpkg.AutoMigrate(database)
	t.Cleanup(func() { database.Close() })
	return database
}

// newTestDispatcher sobe um dispatcher sem clientes externos e com envio
// síncrono, pra poder checar as deliveries logo depois do Dispatch.
func newTestDispatcher(database *gorm.DB) *Dispatcher {
	return New(database, Senders{}, Config{
		DedupeWindow:   time.Hour,
		SendRatePerSec: 100,
		SyncSend:       true,
	})
}

func createUser(t *testing.T, database *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@dmed.gov.br",
		Password: "hash",
		Status:   models.USER_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&user).Error)
	return user
}

func TestDispatchCreatesNotificationPerRecipient(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)
	ana := createUser(t, database, "ana")
	bia := createUser(t, database, "bia")

	created, err := d.Dispatch(context.Background(), Event{
		Name:    models.NOTIFY_EVENT_SYSTEM,
		Title:   "Aviso",
		Body:    "corpo",
		UserIDs: []int64{ana.ID, bia.ID, ana.ID}, // duplicado de propósito
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	var count int64
	require.NoError(t, database.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDispatchDedupeSuppressesSecondEventWithinWindow(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)
	ana := createUser(t, database, "ana")

	ev := Event{
		Name:      models.NOTIFY_EVENT_SLA_OVERDUE,
		Title:     "Prazo estourado",
		UserIDs:   []int64{ana.ID},
		DedupeKey: "sla:overdue:request:1",
	}

	first, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Empty(t, second)

	var count int64
	require.NoError(t, database.Model(&models.Notification{}).
		Where("dedupe_key = ?", ev.DedupeKey).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDispatchDedupeAllowsAfterWindow(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)
	ana := createUser(t, database, "ana")

	ev := Event{
		Name:                models.NOTIFY_EVENT_SLA_URGENT,
		Title:               "Prazo próximo",
		UserIDs:             []int64{ana.ID},
		DedupeKey:           "sla:urgent:request:1",
		DedupeWindowMinutes: 30,
	}

	first, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// envelhece a notificação pra fora da janela
	old := time.Now().Add(-time.Hour)
	require.NoError(t, database.Model(&models.Notification{}).
		Where("id = ?", first[0].ID).
		Update("created_at", old).Error)

	second, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestDispatchDropsBlockedRecipients(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)
	ana := createUser(t, database, "ana")
	blocked := models.User{
		Name:     "bloqueado",
		Email:    "bloqueado@dmed.gov.br",
		Password: "hash",
		Status:   models.USER_STATUS_BLOCKED,
	}
	require.NoError(t, database.Create(&blocked).Error)

	created, err := d.Dispatch(context.Background(), Event{
		Name:    models.NOTIFY_EVENT_SYSTEM,
		Title:   "Aviso",
		UserIDs: []int64{ana.ID, blocked.ID},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, ana.ID, created[0].RecipientID)
}

func TestDispatchSkipsRecipientInQuietHours(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)

	now := time.Now()
	quiet := models.User{
		Name:            "noturno",
		Email:           "noturno@dmed.gov.br",
		Password:        "hash",
		Status:          models.USER_STATUS_ACTIVE,
		QuietHoursStart: now.Add(-time.Hour).Format("15:04"),
		QuietHoursEnd:   now.Add(time.Hour).Format("15:04"),
	}
	require.NoError(t, database.Create(&quiet).Error)

	created, err := d.Dispatch(context.Background(), Event{
		Name:    models.NOTIFY_EVENT_SYSTEM,
		Title:   "Aviso",
		UserIDs: []int64{quiet.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, created)

	var count int64
	require.NoError(t, database.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDispatchRecordsSkippedDeliveriesWithoutClients(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)

	user := models.User{
		Name:           "ana",
		Email:          "ana@dmed.gov.br",
		Password:       "hash",
		Status:         models.USER_STATUS_ACTIVE,
		NotifyEmail:    true,
		NotifyTelegram: true,
		NotifySMS:      false,
	}
	require.NoError(t, database.Create(&user).Error)

	created, err := d.Dispatch(context.Background(), Event{
		Name:    models.NOTIFY_EVENT_SYSTEM,
		Title:   "Aviso",
		UserIDs: []int64{user.ID},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	var deliveries []models.NotificationDelivery
	require.NoError(t, database.Where("notification_id = ?", created[0].ID).Find(&deliveries).Error)
	require.Len(t, deliveries, 2) // email + telegram, sms desabilitado

	for _, delivery := range deliveries {
		assert.Equal(t, models.DELIVERY_STATUS_SKIPPED, delivery.Status)
	}
}

func TestDispatchIncludesWatchersAndAdmins(t *testing.T) {
	database := setupTestDB(t)
	d := newTestDispatcher(database)

	owner := createUser(t, database, "dona")
	watcher := createUser(t, database, "curiosa")
	admin := models.User{
		Name:     "root",
		Email:    "root@dmed.gov.br",
		Password: "hash",
		Role:     models.USER_ROLE_ADMIN,
		Status:   models.USER_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&admin).Error)

	letter := models.Letter{Number: "L-001", Organization: "Org", Subject: "Assunto", OwnerID: owner.ID}
	require.NoError(t, database.Create(&letter).Error)
	require.NoError(t, database.Create(&models.Watcher{LetterID: letter.ID, UserID: watcher.ID}).Error)

	created, err := d.Dispatch(context.Background(), Event{
		Name:                 models.NOTIFY_EVENT_LETTER_STATUS,
		Title:                "Mudou",
		LetterID:             &letter.ID,
		UserIDs:              []int64{owner.ID},
		IncludeSubscriptions: true,
		NotifyAdmins:         true,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	recipients := map[int64]bool{}
	for _, n := range created {
		recipients[n.RecipientID] = true
	}
	assert.True(t, recipients[owner.ID])
	assert.True(t, recipients[watcher.ID])
	assert.True(t, recipients[admin.ID])
}
