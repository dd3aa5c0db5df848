package casbinAuthorization

import (
	"net/http"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"

	"github.com/SCN0mad/scuba-app-backend/handlers"
)

// CasbinMiddleware enforces the role/path/method policy. It runs behind the
// token middleware, so the role comes from already verified claims.
func CasbinMiddleware(e *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole := "Unauthenticated"
			if claims := handlers.GetClaims(r); claims != nil {
				if role, ok := claims["userType"]; ok {
					userRole = role
				}
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				logger.Println("enforce error:", err)
				http.Error(w, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if res {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		return http.HandlerFunc(fn)
	}
}

func InitializeCasbinMiddleware(modelPath, policyPath string, logger *logrus.Logger) (func(http.Handler) http.Handler, error) {
	e, err := casbin.NewEnforcerSafe(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	return CasbinMiddleware(e, logger), nil
}
