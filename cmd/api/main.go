package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Criar aplicação
	app, err := NewApp()
	if err != nil {
		log.Fatalf("Erro ao inicializar aplicação: %v", err)
	}
	defer app.Close()

	// Configurar rotas e iniciar o servidor
	app.SetupRoutes("/api/v1")
	if err := app.Run(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
}
