package main

import (
	"database/sql"
	"flag"
	"log"

	"glpi-dashboard/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	log.Println("======================================================")
	log.Println("       🗂  МИГРАЦИИ СХЕМЫ ДАШБОРДА                    ")
	log.Println("======================================================")

	down := flag.Bool("down", false, "Откатить последнюю миграцию вместо применения новых")
	flag.Parse()

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("❌ Не удалось открыть соединение с БД: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("❌ Не удалось выбрать диалект: %v", err)
	}

	if *down {
		if err := goose.Down(db, "migrations"); err != nil {
			log.Fatalf("❌ Откат не удался: %v", err)
		}
		log.Println("✅ Последняя миграция откатена.")
		return
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("❌ Миграции не применились: %v", err)
	}
	log.Println("✅ Все миграции применены.")
}
