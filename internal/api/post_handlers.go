package api

import "github.com/gofiber/fiber/v2"

func (h *Handlers) createPost(c *fiber.Ctx) error {
	var req postRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	post, err := h.posts.Create(c.Context(), callerID(c), req.Caption)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *Handlers) listPosts(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.Context(), c.Query("filter"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(posts)
}

func (h *Handlers) updatePost(c *fiber.Ctx) error {
	var req postRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	post, err := h.posts.UpdateCaption(c.Context(), callerID(c), c.Params("id"), req.Caption)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handlers) deletePost(c *fiber.Ctx) error {
	if err := h.posts.Delete(c.Context(), callerID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

func (h *Handlers) likePost(c *fiber.Ctx) error {
	likes, liked, err := h.posts.ToggleLike(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "likes": likes, "likedByUser": liked})
}

func (h *Handlers) addComment(c *fiber.Ctx) error {
	var req commentRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	post, err := h.posts.AddComment(c.Context(), callerID(c), c.Params("id"), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handlers) editComment(c *fiber.Ctx) error {
	var req commentRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	post, err := h.posts.EditComment(c.Context(), callerID(c), c.Params("postId"), c.Params("commentId"), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handlers) deleteComment(c *fiber.Ctx) error {
	post, err := h.posts.DeleteComment(c.Context(), callerID(c), c.Params("postId"), c.Params("commentId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}
