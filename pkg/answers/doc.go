// Package answers is a client for an answer-generation service.
//
// The service receives an extracted form as a JSON object and replies with a
// JSON array of answers positionally aligned to the form's items. Each answer
// is a string or an array of strings:
//
//	c := answers.New(answers.WithEndpoint("https://example.com/generate"))
//	set, err := c.Generate(ctx, doc)
//
// Services that wrap the array in an envelope can be used by supplying a jq
// expression that selects it:
//
//	c, err := answers.New(answers.WithEndpoint(url)).WithExpression(".data.answers")
//
// A non-success status is returned as *APIError. There are no retries.
package answers
