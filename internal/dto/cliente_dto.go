package dto

// GuardarClienteRequest covers both POST and PUT of /v1/clientes.
type GuardarClienteRequest struct {
	Nombre       string `json:"nombre" validate:"required,max=200"`
	Contacto     string `json:"contacto" validate:"max=200"`
	Telefono     string `json:"telefono" validate:"max=50"`
	Email        string `json:"email" validate:"omitempty,email"`
	Direccion    string `json:"direccion" validate:"max=255"`
	NIT          string `json:"nit" validate:"max=50"`
	Municipio    string `json:"municipio" validate:"max=100"`
	Departamento string `json:"departamento" validate:"max=100"`
	Notas        string `json:"notas"`
}

type ClienteResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Contacto     string `json:"contacto"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`
	Direccion    string `json:"direccion"`
	NIT          string `json:"nit"`
	Municipio    string `json:"municipio"`
	Departamento string `json:"departamento"`
	Notas        string `json:"notas"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
