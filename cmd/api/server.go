package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	mw "coopfarm/internal/api/middlewares"
	"coopfarm/internal/api/routers"
	"coopfarm/internal/repositories/sqlconnect"
	"coopfarm/pkg/cron"
	"coopfarm/pkg/utils"

	"github.com/joho/godotenv"
)

// loadEnv reads .env when present. A missing file is fine — deployments
// may configure everything through the process environment.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func main() {
	loadEnv()

	utils.InitLogger()

	err := sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	scheduler := cron.StartCronJob(sqlconnect.DB)
	defer scheduler.Stop()

	port := os.Getenv("SERVER_PORT")

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware,
		"/api/auth/register",
		"/api/auth/login",
		"/api/auth/refresh",
		"/api/health",
		"/api",
	)

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	fmt.Println("Server is running on port", port)
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
