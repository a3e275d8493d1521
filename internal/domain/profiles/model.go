package profiles

import "time"

// Profile representa a un usuario de la plataforma. Username es único e
// inmutable; los campos de PII viven acá para que la proyección de
// visibilidad pueda servirlos en claro o enmascarados.
type Profile struct {
	Username    string
	DisplayName string

	ContactEmail  string
	ContactNumber string
	Location      string
	Workplace     string
	DateOfBirth   *time.Time
	LinkedInURL   string

	CreatedAt time.Time
}

// Photo es una foto registrada del perfil. El engine solo maneja
// identificadores y orden; el almacenamiento/transcodificación del binario
// es asunto de otro sistema.
type Photo struct {
	ID        string
	Owner     string
	URL       string
	Position  int
	IsPrimary bool
	CreatedAt time.Time
}
