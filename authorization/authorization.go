package authorization

import (
	"errors"
	"log"
	"strings"

	"github.com/cristalhq/jwt/v4"
)

// Verifier checks bearer credentials issued by the external identity
// provider and hands back the stable subject id and claims. Token issuance
// is not done here.
type Verifier struct {
	verifier *jwt.HSAlg
}

func NewVerifier(secretKey []byte) (*Verifier, error) {
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secretKey)
	if err != nil {
		return nil, err
	}
	return &Verifier{verifier: verifier}, nil
}

func (v *Verifier) GetToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse([]byte(tokenString), v.verifier)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	return token, nil
}

func (v *Verifier) GetMapClaims(tokenBytes []byte) map[string]string {
	var claims map[string]string

	err := jwt.ParseClaims(tokenBytes, v.verifier, &claims)
	if err != nil {
		log.Println(err)
	}

	return claims
}

// VerifyBearer takes the raw Authorization header value and returns the
// claims of a valid token. The two error messages are part of the API
// contract.
func (v *Verifier) VerifyBearer(bearer string) (map[string]string, error) {
	if bearer == "" {
		return nil, errors.New("No token provided")
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return nil, errors.New("Invalid token")
	}

	token, err := v.GetToken(bearerToken[1])
	if err != nil {
		return nil, errors.New("Invalid token")
	}

	claims := v.GetMapClaims(token.Bytes())
	if claims["sub"] == "" {
		return nil, errors.New("Invalid token")
	}

	return claims, nil
}
