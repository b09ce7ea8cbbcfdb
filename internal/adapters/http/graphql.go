package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"lat":     &graphql.Field{Type: graphql.Float},
			"lng":     &graphql.Field{Type: graphql.Float},
			"address": &graphql.Field{Type: graphql.String},
		},
	})

	stationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Station",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"name":            &graphql.Field{Type: graphql.String},
			"location":        &graphql.Field{Type: locationType},
			"charger_types":   &graphql.Field{Type: graphql.NewList(graphql.String)},
			"cost_per_kwh":    &graphql.Field{Type: graphql.Float},
			"available_slots": &graphql.Field{Type: graphql.Int},
			"rating":          &graphql.Field{Type: graphql.Float},
			"is_synthetic":    &graphql.Field{Type: graphql.Boolean},
			"distance":        &graphql.Field{Type: graphql.Float},
		},
	})

	bookingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Booking",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"user_id":          &graphql.Field{Type: graphql.String},
			"station_id":       &graphql.Field{Type: graphql.String},
			"station_name":     &graphql.Field{Type: graphql.String},
			"station_address":  &graphql.Field{Type: graphql.String},
			"duration_hours":   &graphql.Field{Type: graphql.Float},
			"total_cost":       &graphql.Field{Type: graphql.Float},
			"status":           &graphql.Field{Type: graphql.String},
			"transaction_hash": &graphql.Field{Type: graphql.String},
			"currency":         &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"stations": &graphql.Field{
				Type:        graphql.NewList(stationType),
				Description: "List all charging stations",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Stations.List(p.Context)
				},
			},
			"station": &graphql.Field{
				Type:        stationType,
				Description: "Get a station by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Stations.GetByID(p.Context, id)
				},
			},
			"stationsNearby": &graphql.Field{
				Type:        graphql.NewList(stationType),
				Description: "Find stations near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 5000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lng := p.Args["lng"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Stations.FindNearby(p.Context, lat, lng, radius, limit)
				},
			},
			"bookings": &graphql.Field{
				Type:        graphql.NewList(bookingType),
				Description: "List a user's bookings, newest first",
				Args: graphql.FieldConfigArgument{
					"user_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID := p.Args["user_id"].(string)
					return deps.Bookings.ListByUser(p.Context, userID)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
