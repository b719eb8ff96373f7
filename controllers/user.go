package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"foodie-app/middleware"
	"foodie-app/models"
	"foodie-app/session"
	"foodie-app/utils"
)

// UserController handles user-related requests
type UserController struct {
	Collection *mongo.Collection
	Sessions   *session.Store
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client, db string, sessions *session.Store) *UserController {
	collection := client.Database(db).Collection("users")
	return &UserController{
		Collection: collection,
		Sessions:   sessions,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if user.Email == "" || user.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	// Check if user already exists
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	user.Password = string(hashedPassword)
	user.CreatedAt = time.Now()

	_, err = uc.Collection.InsertOne(ctx, user)
	if err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode("User registered successfully")
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	// Compare the hashed password
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	uid := user.ID.Hex()
	token, err := utils.GenerateJWT(uid, user.Email)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	if err := uc.Sessions.SaveToken(ctx, uid, token); err != nil {
		http.Error(w, "Error creating session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token, "user_id": uid})
}

// Logout ends the user's session
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := uc.Sessions.DeleteToken(r.Context(), claims.UserID); err != nil {
		http.Error(w, "Error ending session", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode("Signed out")
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// EnableBiometric associates the caller's device with their account for
// biometric sign-in. The hardware prompt itself happens on-device; the server
// only keeps the enablement flag and the user id it maps to.
func (uc *UserController) EnableBiometric(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		DeviceID string `json:"device_id"`
		Enabled  bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeviceID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var err error
	if body.Enabled {
		err = uc.Sessions.EnableBiometric(r.Context(), body.DeviceID, claims.UserID)
	} else {
		err = uc.Sessions.DisableBiometric(r.Context(), body.DeviceID)
	}
	if err != nil {
		http.Error(w, "Error updating biometric setting", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"enabled": body.Enabled})
}

// BiometricLogin issues a session for a device that passed the on-device
// biometric prompt and was previously enrolled.
func (uc *UserController) BiometricLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DeviceID string `json:"device_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeviceID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	uid, err := uc.Sessions.BiometricUser(ctx, body.DeviceID)
	if err != nil {
		http.Error(w, "Biometric sign-in is not enabled on this device", http.StatusUnauthorized)
		return
	}

	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		http.Error(w, "Invalid enrollment", http.StatusUnauthorized)
		return
	}
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(uid, user.Email)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	if err := uc.Sessions.SaveToken(ctx, uid, token); err != nil {
		http.Error(w, "Error creating session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token, "user_id": uid})
}

// CompleteOnboarding marks onboarding done for the caller
func (uc *UserController) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := uc.Sessions.CompleteOnboarding(r.Context(), claims.UserID); err != nil {
		http.Error(w, "Error saving onboarding state", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"completed": true})
}

// OnboardingStatus reports whether the caller finished the current onboarding
func (uc *UserController) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	done, err := uc.Sessions.OnboardingDone(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Error reading onboarding state", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"completed": done})
}
