package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el contexto de actor de la aplicación.
// La autenticación vive fuera de este servicio: los tokens los emite el sistema
// de usuarios; aquí solo se validan y se extrae el contexto (actor, rol, agencia).
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	AgenciaID string `json:"agencia_id,omitempty"` // agencia asignada (taquilleras); vacío para admin
	Role      string `json:"role"`                 // "taquillera" | "encargada" | "admin"
}

// Contexto es el resultado de validar un token: quién actúa y con qué alcance.
type Contexto struct {
	UserID    string
	AgenciaID string
	Role      string
}

// Generate genera un token JWT firmado con el contexto de actor. Se usa en tests
// y en herramientas internas; en producción los tokens vienen del servicio de usuarios.
func Generate(secret, userID, agenciaID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		AgenciaID: agenciaID,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el contexto de actor.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Contexto, error) {
	if secret == "" {
		return Contexto{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Contexto{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Contexto{}, fmt.Errorf("claims inválidos")
	}
	return Contexto{UserID: claims.UserID, AgenciaID: claims.AgenciaID, Role: claims.Role}, nil
}
