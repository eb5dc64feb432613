// Command seeduser creates an initial usuario directly in the database.
// Intended for bootstrapping a fresh deployment before any staff user exists.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jrodash2/Cotiza/internal/config"
	"github.com/jrodash2/Cotiza/internal/infra"
	"github.com/jrodash2/Cotiza/internal/model"
	"github.com/jrodash2/Cotiza/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "nombre de usuario (obligatorio)")
	password := flag.String("password", "", "contraseña (obligatorio)")
	nombre := flag.String("nombre", "", "nombre completo")
	email := flag.String("email", "", "correo electrónico")
	staff := flag.Bool("staff", false, "otorgar capacidad staff (ver costos)")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error cargando configuracion:", err)
		os.Exit(1)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error conectando a la base de datos:", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generando hash:", err)
		os.Exit(1)
	}

	repo := repository.NewUsuarioRepository(db)
	user := &model.Usuario{
		Username:     *username,
		Nombre:       *nombre,
		Email:        *email,
		PasswordHash: string(hash),
		EsStaff:      *staff,
		Activo:       true,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		fmt.Fprintln(os.Stderr, "error creando usuario:", err)
		os.Exit(1)
	}
	fmt.Printf("usuario %q creado (staff=%v, id=%s)\n", user.Username, user.EsStaff, user.ID)
}
