package main

import (
	"flag"
	"log"

	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	down := flag.Bool("down", false, "desfaz a última migração em vez de aplicar as pendentes")
	flag.Parse()

	if *down {
		if err := database.RollbackMigration(); err != nil {
			log.Fatalf("Erro ao reverter migração: %v", err)
		}
		log.Println("Migração revertida com sucesso!")
		return
	}

	if err := database.RunMigrations(); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Println("Migrações executadas com sucesso!")
}
