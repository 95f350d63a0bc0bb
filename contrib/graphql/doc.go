// Package graphql renders GraphQL SDL for boolean timestamp fields and
// binds the rendered schema into a gqlgen configuration.
//
// For a type User with an "activate" declaration:
//
//	sdl, err := graphql.SDL("User", UserActivated)
//
// renders
//
//	extend type User {
//	  activated: Boolean!
//	  activatedAt: Time
//	}
//	extend type Query {
//	  activatedUsers: [User!]!
//	}
//	extend type Mutation {
//	  activateUser(id: ID!): User!
//	}
//
// The schema file can then be registered with gqlgen:
//
//	cfg, err := graphql.LoadGQLGenConfig("gqlgen.yml")
//	cfg.Bind("example.com/app/models", "graph/booltime.graphql", "User")
//	err = graphql.SaveGQLGenConfig("gqlgen.yml", cfg)
//
// Model resolvers marshal the timestamp with MarshalTimestamp, or take
// both resolvers from Resolvers.
package graphql
