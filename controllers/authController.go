package controllers

import (
	"errors"
	"strings"
	"time"

	"billing-backend/config"
	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`

	CompanyName string `json:"company_name" validate:"required"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Zip         string `json:"zip"`
	Homepage    string `json:"homepage"`
	GSTIN       string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	PhoneNumber string `json:"phone_number"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register(c *fiber.Ctx) error {
	var data RegisterInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))

	if data.Password != data.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	var mailExist models.User
	err := database.DB.Where("email = ?", data.Email).First(&mailExist).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email already exists",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := models.User{
		FirstName: strings.TrimSpace(data.FirstName),
		LastName:  strings.TrimSpace(data.LastName),
		Email:     data.Email,
	}
	if err := user.SetPassword(data.Password); err != nil {
		return err
	}

	company := models.Company{
		CompanyName: strings.TrimSpace(data.CompanyName),
		Address:     data.Address,
		City:        data.City,
		State:       data.State,
		Country:     data.Country,
		Zip:         data.Zip,
		Homepage:    data.Homepage,
		GSTIN:       strings.ToUpper(data.GSTIN),
		PhoneNumber: data.PhoneNumber,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		company.UserId = user.Id
		return tx.Omit("User").Create(&company).Error
	})
	if err != nil {
		config.LogError(config.GetLogger(), "controllers", "Register", "create user", data.Email, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Registration failed",
		})
	}

	company.User = user
	return c.Status(fiber.StatusCreated).JSON(company)
}

func Login(c *fiber.Ctx) error {
	var data LoginInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(data.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid credentials"})
		}
		return err
	}
	if err := user.ComparePassword(data.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	var company models.Company
	if err := database.DB.Where("user_id = ?", user.Id).First(&company).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	token, err := middlewares.GenerateJWT(user.Id, company.Id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
		"company": company,
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
