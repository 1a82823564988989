package security

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"solarstock/internal/repository"
	"solarstock/pkg/models"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found while loading JWT secret: %v", err)
		}
		secret = os.Getenv("JWT_SECRET")
	}

	if secret == "" {
		log.Println("Warning: JWT_SECRET is not set, authenticated routes will reject all tokens")
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role string, username string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT_SECRET environment variable is not set")
	}

	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// UserIDFromContext returns the acting operator's id for audit attribution,
// nil when the route is unauthenticated.
func UserIDFromContext(c *gin.Context) *int {
	value, exists := c.Get("userID")
	if !exists {
		return nil
	}

	// JWT numeric claims decode as float64.
	claim, ok := value.(float64)
	if !ok {
		return nil
	}

	userID := int(claim)
	return &userID
}

