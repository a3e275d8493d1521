package visibility

import "strings"

const linkedInMasked = "[🔒 Private - Request Access]"

// MaskEmail: john.doe@gmail.com -> j***@gmail.com
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local := email[:at]
	domain := email[at+1:]
	return local[:1] + "***@" + domain
}

// MaskPhone: +1-555-123-4567 -> ***-***-4567. Se conservan solo los últimos
// cuatro dígitos; extensiones ("ext 22") se descartan antes de contar.
func MaskPhone(phone string) string {
	if phone == "" {
		return phone
	}
	if i := strings.Index(phone, "ext"); i >= 0 {
		phone = phone[:i]
	}

	var digits []byte
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 4 {
		return "***"
	}
	return "***-***-" + string(digits[len(digits)-4:])
}

// MaskLocation deja solo la parte menos precisa de la dirección:
// "123 Main St, New York, NY" -> "NY"; "Austin, TX" queda igual.
func MaskLocation(location string) string {
	if location == "" {
		return location
	}
	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) == 3:
		return parts[2]
	case len(parts) >= 4:
		return parts[len(parts)-2] + ", " + parts[len(parts)-1]
	default:
		return strings.Join(parts, ", ")
	}
}

// MaskWorkplace: "Google Inc, 1600 Amphitheatre" -> "Google Inc"
func MaskWorkplace(workplace string) string {
	if workplace == "" {
		return workplace
	}
	parts := strings.SplitN(workplace, ",", 2)
	return strings.TrimSpace(parts[0])
}

// MaskLinkedIn reemplaza la URL por completo: una URL parcial sigue
// identificando a la persona.
func MaskLinkedIn(url string) string {
	if url == "" {
		return url
	}
	return linkedInMasked
}
