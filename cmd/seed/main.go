// Command seed populates the database with a demo user and a handful of
// recipes, tags and ingredients. Intended for local development only.
package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/service"
	"recipebox/internal/storage"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo-password"
)

type seedRecipe struct {
	title       string
	timeMinutes int
	price       string
	tags        []string
	ingredients []string
}

var seedRecipes = []seedRecipe{
	{"Thai prawn curry", 25, "9.50", []string{"Dinner", "Spicy"}, []string{"Prawns", "Coconut milk", "Red curry paste"}},
	{"Avocado toast", 10, "4.00", []string{"Breakfast"}, []string{"Bread", "Avocado"}},
	{"Chocolate cheesecake", 90, "12.00", []string{"Dessert"}, []string{"Cream cheese", "Chocolate"}},
}

func main() {
	log := logrus.WithField("cmd", "seed")
	log.Info("starting seed")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("connect database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
	); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	ingredientRepo := repository.NewIngredientRepository(gormDB)
	recipeRepo := repository.NewRecipeRepository(gormDB)

	userService := service.NewUserService(userRepo)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, storage.NewImageStore(cfg.UploadDir))

	ctx := context.Background()

	user, err := userService.CreateUser(ctx, demoEmail, demoPassword, "Demo User")
	if err != nil {
		logrus.Fatalf("create demo user: %v", err)
	}
	log.WithField("email", user.Email).Info("demo user created")

	tagIDs := map[string]uint{}
	ingredientIDs := map[string]uint{}

	for _, r := range seedRecipes {
		var recipeTagIDs []uint
		for _, name := range r.tags {
			id, ok := tagIDs[name]
			if !ok {
				tag, err := tagService.Create(ctx, user.ID, name)
				if err != nil {
					logrus.Fatalf("create tag %q: %v", name, err)
				}
				id = tag.ID
				tagIDs[name] = id
			}
			recipeTagIDs = append(recipeTagIDs, id)
		}

		var recipeIngredientIDs []uint
		for _, name := range r.ingredients {
			id, ok := ingredientIDs[name]
			if !ok {
				ingredient, err := ingredientService.Create(ctx, user.ID, name)
				if err != nil {
					logrus.Fatalf("create ingredient %q: %v", name, err)
				}
				id = ingredient.ID
				ingredientIDs[name] = id
			}
			recipeIngredientIDs = append(recipeIngredientIDs, id)
		}

		price, err := decimal.NewFromString(r.price)
		if err != nil {
			logrus.Fatalf("parse price %q: %v", r.price, err)
		}

		recipe, err := recipeService.Create(ctx, user.ID, service.RecipeInput{
			Title:         r.title,
			TimeMinutes:   r.timeMinutes,
			Price:         price,
			TagIDs:        recipeTagIDs,
			IngredientIDs: recipeIngredientIDs,
		})
		if err != nil {
			logrus.Fatalf("create recipe %q: %v", r.title, err)
		}
		log.WithField("title", recipe.Title).Info("recipe created")
	}

	log.WithFields(logrus.Fields{
		"recipes":     len(seedRecipes),
		"tags":        len(tagIDs),
		"ingredients": len(ingredientIDs),
	}).Info("seed completed")
}
