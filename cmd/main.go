package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/BradleyStaples/minesweeper/api"
	"github.com/BradleyStaples/minesweeper/db"
	"github.com/BradleyStaples/minesweeper/db/sqlc"
	mc "github.com/BradleyStaples/minesweeper/models/connection"
	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

func main() {
	if os.Getenv("STAGE") != "prod" {
		if err := godotenv.Load(".env"); err != nil {
			panic(err)
		}
	}
	stage := os.Getenv("STAGE")
	if stage != "dev" && stage != "prod" {
		panic("stage must be either dev or prod")
	}
	portEnv := os.Getenv("PORT")
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		panic(err)
	}

	psqlUrl := os.Getenv("DATABASE_URL")
	psqlDb := db.MustConnectToDb(psqlUrl)
	querier := sqlc.New(psqlDb)

	sessionManager := mc.NewSweepSessionManager()
	go sessionManager.CleanupPeriodically()

	gameManager := ms.NewSweepGameManager()

	rp := api.NewRequestProcessor(sessionManager, gameManager, querier)

	mux := http.NewServeMux()
	mux.Handle("GET /minesweeper", rp)

	log.Printf("Listening to port %d\n", port)
	log.Fatalln(http.ListenAndServe("0.0.0.0:"+fmt.Sprintf("%d", port), mux))
}
