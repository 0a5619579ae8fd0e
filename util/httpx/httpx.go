// Package httpx writes the API's response envelope:
// {"success": bool, "data"|"error"|"message": ...}.
package httpx

import "github.com/labstack/echo/v4"

func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": true, "message": msg})
}

func Fail(c echo.Context, status int, errMsg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": errMsg})
}
