package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles conocidos dentro de los claims.
const (
	RoleOwner    = "owner"
	RoleVendedor = "vendedor"
)

// Claims incluye los claims estándar JWT más los campos propios de Routiva.
// ActorID es el usuario que ejecuta la operación (dueño o vendedor) y
// CompanyID la empresa sobre la que opera; ambos viajan explícitos en cada
// petición en lugar de vivir en estado global de sesión.
type Claims struct {
	jwt.RegisteredClaims
	ActorID   string `json:"actor_id"`
	CompanyID string `json:"empresa_id"`
	Role      string `json:"role"` // "owner" | "vendedor"
}

// Generate genera un token firmado HS256. Lo usa la suite de pruebas y
// tooling interno; la emisión real de tokens vive en el proveedor de identidad.
func Generate(secret, actorID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		ActorID:   actorID,
		CompanyID: companyID,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve actorID, companyID y role.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (actorID, companyID, role string, err error) {
	if secret == "" {
		return "", "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", "", fmt.Errorf("claims inválidos")
	}
	return claims.ActorID, claims.CompanyID, claims.Role, nil
}
