package boot

import (
	"context"
	"encoding/json"
	"log"

	"boletera/src/config"
	"boletera/src/db"
	"boletera/src/lib"
	"boletera/src/lib/mailer"
	"boletera/src/models"
	"boletera/src/services"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketCategory{},
		&models.Ticket{},
		&models.AdmissionRecord{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the recurring sweep that moves events past
// their end time to finalizado, then starts the scheduler.
func InitScheduler(events *services.EventService) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jid, err := lib.CreateCronJob(func() {
		finished, err := events.SweepFinished(context.Background())
		if err != nil {
			log.Printf("Error sweeping finished events: %s\n", err.Error())
			return
		}
		if finished > 0 {
			log.Printf("Marked %d event(s) as finished\n", finished)
		}
	}, config.EVENT_SWEEP_INTERVAL)
	if err != nil {
		log.Printf("Error creating sweep job: %s\n", err.Error())
		return
	}
	log.Printf("Sweep job registered: %s\n", *jid)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// InitBroker creates the topics the API produces to and starts the
// consumer that mails purchase confirmations.
func InitBroker() {
	go lib.KafkaCreateTopics(config.TOPIC_TICKETS_PURCHASED, config.TOPIC_ADMISSION_RECORDED)
	if err := lib.KafkaConsumeTopic("correos", config.TOPIC_TICKETS_PURCHASED, func(value []byte) {
		var receipt mailer.PurchaseReceipt
		if err := json.Unmarshal(value, &receipt); err != nil {
			log.Printf("Error decoding purchase message: %s\n", err.Error())
			return
		}
		if err := mailer.SendPurchaseConfirmation(&receipt); err != nil {
			log.Printf("Error sending confirmation: %s\n", err.Error())
		}
	}); err != nil {
		log.Printf("Error starting purchase consumer: %s\n", err.Error())
	}
}
